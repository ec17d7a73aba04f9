// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var (
	debug    bool
	logLevel slog.LevelVar

	dbType           string
	dbDSN            string
	keyRootSecretHex string
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "go-sdls-tc",
	Short: "CCSDS Space Data Link Security telecommand library and demo server",
	Long: `A library and demo server implementing CCSDS Space Data Link
	Security Telecommand frame protection: ApplySecurity on the sending
	side, ProcessSecurity on the receiving side, and a Security
	Association store behind both.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "Print debug output")
	rootCmd.PersistentFlags().String("config", "", "Pathname of the configuration file")
	rootCmd.PersistentFlags().String("db-type", "sqlite", "Security Association/key-ring database type (sqlite or postgres)")
	rootCmd.PersistentFlags().String("db-dsn", "", "Database data source name")
	rootCmd.PersistentFlags().String("key-root-secret", "", "Hex-encoded root secret for key-ring wrapping")
}

// rootCmdLoadConfig binds persistent flags into viper, optionally loads a
// configuration file named by --config, and populates the shared root
// state. Subcommands call this after binding their own flags.
func rootCmdLoadConfig(cmd *cobra.Command) (*SDLSConfig, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return nil, err
	}

	if configFilePath := viper.GetString("config"); configFilePath != "" {
		slog.Debug("loading configuration file", "path", configFilePath)
		viper.SetConfigFile(configFilePath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	debug = viper.GetBool("debug")
	if debug {
		logLevel.Set(slog.LevelDebug)
	}

	dbType = viper.GetString("db-type")
	dbDSN = viper.GetString("db-dsn")
	keyRootSecretHex = viper.GetString("key-root-secret")
	if dbDSN == "" {
		return nil, errors.New("missing required database DSN (--db-dsn)")
	}

	var cfg SDLSConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.DB.Type = dbType
	cfg.DB.DSN = dbDSN
	if cfg.KeyRootSecretHex == "" {
		cfg.KeyRootSecretHex = keyRootSecretHex
	}
	return &cfg, nil
}
