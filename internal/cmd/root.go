package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/db"
	"tarediiran-industries.com/citibike-services/internal/stations"
	"tarediiran-industries.com/citibike-services/internal/web/citibike_web"
)

type CitibikeCtlApp struct {
	ConfigPath         string
	DataDir            string
	DatabaseConnection string
}

func Execute() error {
	app := &CitibikeCtlApp{}
	rootCmd := NewRootCmd(app)
	return rootCmd.Execute()
}

func NewRootCmd(app *CitibikeCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "citibike-ctl",
		Short:         "CLI tool used to inspect the prepared CitiBike dashboard data",
		Version:       common.Version + " (" + common.GitCommit + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"toml",
		"config/citibike-web.dev.toml",
		"Path to the dashboard configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&app.DataDir,
		"data-dir",
		"",
		"Prepared data directory; overrides data_dir from the configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&app.DatabaseConnection,
		"database",
		"",
		"Read station totals from Postgres instead of the CSV files",
	)

	cmd.AddCommand(NewStationsCmd(app))
	cmd.AddCommand(NewSeasonsCmd(app))
	cmd.AddCommand(NewCheckCmd(app))
	cmd.AddCommand(NewExportCmd(app))

	return cmd
}

// dataDir prefers the flag, then the dashboard's configuration file.
func (app *CitibikeCtlApp) dataDir() (string, error) {
	if app.DataDir != "" {
		return app.DataDir, nil
	}
	if app.ConfigPath == "" {
		return "", fmt.Errorf("either --data-dir or --toml must be set")
	}

	cfg, err := citibike_web.LoadConfigFromToml(app.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("LoadConfigFromToml: %w", err)
	}
	if cfg.DataDir == "" {
		return "", fmt.Errorf("%s has no data_dir", app.ConfigPath)
	}
	return cfg.DataDir, nil
}

func (app *CitibikeCtlApp) mapPath(dataDir string) string {
	if app.DataDir == "" && app.ConfigPath != "" {
		if cfg, err := citibike_web.LoadConfigFromToml(app.ConfigPath); err == nil && cfg.MapPath != "" {
			return cfg.MapPath
		}
	}
	return filepath.Join(dataDir, "Citi_Bike_Trips.html")
}

func (app *CitibikeCtlApp) stationTables(ctx context.Context) (stations.Tables, error) {
	if app.DatabaseConnection != "" {
		database, err := db.NewDatabaseConnection(ctx, app.DatabaseConnection)
		if err != nil {
			return stations.Tables{}, err
		}
		defer database.Close()
		return database.StationTables(ctx)
	}

	dir, err := app.dataDir()
	if err != nil {
		return stations.Tables{}, err
	}
	return dataset.CSVTables{Dir: dir}.StationTables(ctx)
}
