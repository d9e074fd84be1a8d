package citibike_web

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"tarediiran-industries.com/citibike-services/internal/common"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type ConfigFile struct {
	ListenAddress    string   `toml:"listen_address"`
	TelemetryAddress string   `toml:"telemetry_address"`
	DataDir          string   `toml:"data_dir"`
	MapPath          string   `toml:"map_path"`
	ContentPath      string   `toml:"content_path"`
	Source           string   `toml:"source"`
	Database         string   `toml:"database"`
	Watch            *bool    `toml:"watch"`
	WatchDebounce    duration `toml:"watch_debounce"`
	ReloadSchedule   string   `toml:"reload_schedule"`
	DurationBins     int      `toml:"duration_bins"`
	LogLevel         string   `toml:"log_level"`
}

// duration decodes TOML strings such as "750ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Version        bool
	TomlConfigPath string

	ListenAddress    string `validate:"required"`
	TelemetryAddress string

	DataDir     string `validate:"required"`
	MapPath     string
	ContentPath string

	Source             string `validate:"oneof=csv postgres"`
	DatabaseConnection string `validate:"required_if=Source postgres"`

	Watch          bool
	WatchDebounce  time.Duration `validate:"gte=0"`
	ReloadSchedule string
	DurationBins   int `validate:"gte=0,lte=500"`

	LogLevel string `validate:"omitempty,oneof=debug info warn error"`
}

const (
	defaultListenAddress = ":8080"
	defaultWatchDebounce = 2 * time.Second
	defaultMapFile       = "Citi_Bike_Trips.html"
)

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

	fs.StringVar(&cfg.ListenAddress, "listen", defaultListenAddress, "Dashboard listen address")
	fs.StringVar(&cfg.TelemetryAddress, "telemetry", "", "Metrics and pprof listen address; empty disables telemetry")
	fs.StringVar(&cfg.DataDir, "data-dir", "", "Prepared data directory")
	fs.StringVar(&cfg.MapPath, "map", "", "Trip map HTML file (default <data-dir>/"+defaultMapFile+")")
	fs.StringVar(&cfg.ContentPath, "content", "", "Narrative content TOML overriding the built-in text")
	fs.StringVar(&cfg.Source, "source", SourceCSV, "Station totals source: csv or postgres")
	fs.StringVar(&cfg.DatabaseConnection, "database", "", "Database connection string, required for -source postgres")
	fs.BoolVar(&cfg.Watch, "watch", false, "Reload when files in the data directory change")
	fs.DurationVar(&cfg.WatchDebounce, "watch-debounce", defaultWatchDebounce, "Quiet period before a watched change triggers a reload")
	fs.StringVar(&cfg.ReloadSchedule, "reload-schedule", "", "Cron schedule for periodic reloads, e.g. \"@every 15m\"")
	fs.IntVar(&cfg.DurationBins, "duration-bins", 0, "Trip duration histogram bins (default 50)")
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

	if cfg.MapPath == "" && cfg.DataDir != "" {
		cfg.MapPath = filepath.Join(cfg.DataDir, defaultMapFile)
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
	setString := func(name string, target *string, value string) {
		if !explicit[name] && value != "" {
			*target = value
		}
	}

	setString("listen", &cfg.ListenAddress, file.ListenAddress)
	setString("telemetry", &cfg.TelemetryAddress, file.TelemetryAddress)
	setString("data-dir", &cfg.DataDir, file.DataDir)
	setString("map", &cfg.MapPath, file.MapPath)
	setString("content", &cfg.ContentPath, file.ContentPath)
	setString("source", &cfg.Source, file.Source)
	setString("database", &cfg.DatabaseConnection, file.Database)
	setString("reload-schedule", &cfg.ReloadSchedule, file.ReloadSchedule)
	setString("log-level", &cfg.LogLevel, file.LogLevel)

	if !explicit["watch"] && file.Watch != nil {
		cfg.Watch = *file.Watch
	}
	if !explicit["watch-debounce"] && file.WatchDebounce.Duration > 0 {
		cfg.WatchDebounce = file.WatchDebounce.Duration
	}
	if !explicit["duration-bins"] && file.DurationBins > 0 {
		cfg.DurationBins = file.DurationBins
	}
}

func (cfg Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErr := validationErrs[0]
	switch fieldErr.Field() {
	case "ListenAddress":
		return fmt.Errorf("listen address is required")
	case "DataDir":
		return fmt.Errorf("data directory is required")
	case "Source":
		return fmt.Errorf("unknown source %q, want %s or %s", cfg.Source, SourceCSV, SourcePostgres)
	case "DatabaseConnection":
		return fmt.Errorf("source %s needs a database connection", SourcePostgres)
	case "LogLevel":
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return fmt.Errorf("invalid %s: %s", fieldErr.Field(), fieldErr.Tag())
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

	return Run(cfg, errOut)
}
