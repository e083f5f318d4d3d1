package main

import (
	"errors"
	"os"

	"github.com/MarcoPoloResearchLab/jigong/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "jigong",
		Short: "Personal attendance and wage tracker",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(
		newServeCommand(),
		newExportCommand(),
		newExportWorkbookCommand(),
		newImportCommand(),
		newWipeCommand(),
		newHolidaysCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().StringSlice("allow-origin", nil, "Allowed CORS origin (repeatable; default loopback only)")
	cmd.PersistentFlags().String("data-dir", defaults.GetString("data.dir"), "Directory holding the record store and preferences")
	cmd.PersistentFlags().String("store-name", defaults.GetString("store.name"), "Record store name")
	cmd.PersistentFlags().Int("store-version", defaults.GetInt("store.version"), "Record store schema version")
	cmd.PersistentFlags().String("prefs-scope", defaults.GetString("prefs.scope"), "Preference store scope")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", defaults.GetString("log.format"), "Log format (json, console)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "http.allow_origins", "allow-origin")
	bindFlag(cmd, "data.dir", "data-dir")
	bindFlag(cmd, "store.name", "store-name")
	bindFlag(cmd, "store.version", "store-version")
	bindFlag(cmd, "prefs.scope", "prefs-scope")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "log.format", "log-format")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}
