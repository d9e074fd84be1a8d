package ingest

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"tarediiran-industries.com/citibike-services/internal/common"
)

type ConfigFile struct {
	DataDir  string `toml:"data_dir"`
	Database string `toml:"database"`
	LogLevel string `toml:"log_level"`
}

type Config struct {
	Version bool

	// Toml config path - values from the file fill in any flag left unset
	TomlConfigPath string

	// Input: the prepared data directory holding both station total files
	DataDir string `validate:"required"`

	// Output: either dry-run or write to a database connection
	DryRun             bool
	DatabaseConnection string `validate:"required_without=DryRun,excluded_with=DryRun"`

	LogLevel string `validate:"omitempty,oneof=debug info warn error"`
}

func LoadConfigFromToml(path string) (ConfigFile, error) {
	var cfg ConfigFile
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ConfigFile{}, err
	}

	return cfg, nil
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")
	fs.StringVar(&cfg.TomlConfigPath, "toml", "", "Configuration file; flags take precedence over its values")
	fs.StringVar(&cfg.DataDir, "data-dir", "", "Directory holding DB_bar_chart_start.csv and DB_bar_chart_end.csv")

	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate the station totals and report what would be copied, without DB writes")
	fs.StringVar(&cfg.DatabaseConnection, "database", "", "Target database connection string")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return Config{}, flag.ErrHelp
	}

	if cfg.TomlConfigPath != "" {
		tomlCfg, err := LoadConfigFromToml(cfg.TomlConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("LoadConfigFromToml: %w", err)
		}
		cfg.applyFile(tomlCfg, setFlags(fs))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func (cfg *Config) applyFile(file ConfigFile, explicit map[string]bool) {
	if !explicit["data-dir"] && file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	// A dry run never takes the database from the file.
	if !explicit["database"] && !cfg.DryRun && file.Database != "" {
		cfg.DatabaseConnection = file.Database
	}
	if !explicit["log-level"] && file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
}

func (cfg Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, fieldErr := range validationErrs {
		switch fieldErr.Field() {
		case "DataDir":
			return fmt.Errorf("-data-dir is required")
		case "DatabaseConnection":
			return fmt.Errorf("exactly one of -dry-run or -database must be specified")
		case "LogLevel":
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}
	}
	return err
}

func Main(programName string, args []string, stdOut, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(cfg, stdOut, errOut)
}
