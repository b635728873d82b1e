package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/blakearchive/sfmscripts/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "sfmscripts",
	Short: "sfmscripts: archive text-overlap tooling",
	Long: `sfmscripts works with a Superfastmatch-style text similarity service:
it exports cross-document match fragments as CSV (dropping matches between
documents of the same matrix) and extracts plain-text transcriptions from
the archive's XML files for loading into the service.

Commands:
  export    Export match fragments to CSV
  extract   Extract transcriptions from archive XML
  status    Show similarity service status
  document  Fetch a single document from the service`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/sfmscripts")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// SFM_SERVICE_ADDR -> service.addr
	viper.SetEnvPrefix("SFM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("service.addr", "SFM_SERVICE_ADDR")
	viper.BindEnv("service.port", "SFM_SERVICE_PORT")
	viper.BindEnv("service.page_size", "SFM_SERVICE_PAGE_SIZE")
	viper.BindEnv("service.rate_limit", "SFM_SERVICE_RATE_LIMIT")
	viper.BindEnv("service.timeout", "SFM_SERVICE_TIMEOUT")
	viper.BindEnv("export.output", "SFM_EXPORT_OUTPUT")
	viper.BindEnv("export.relations", "SFM_EXPORT_RELATIONS")
	viper.BindEnv("extract.xml_dir", "SFM_EXTRACT_XML_DIR")
	viper.BindEnv("extract.text_dir", "SFM_EXTRACT_TEXT_DIR")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}
}
