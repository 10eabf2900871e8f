package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/foyers/ledger/internal/config"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Shared house ledger",
	Long: `Ledger of shared houses. It books the monthly allocation of every person,
records expenses and advances and reports balances per month and school year.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and seed houses, people and expense categories",
	Long: `Create the database and seed houses, people and expense categories.
Without --seed, the default houses and categories are created. Records that
already exist are left alone, so init can be run more than once.`,
	RunE: runInit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a TOML configuration file")
	initCmd.Flags().StringP("seed", "s", "", "Path to a TOML seed file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, configures logging and connects to the database.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if cfg.UsePostgres() {
		err = models.ConnectPostgres(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}

		return cfg, nil
	}

	// Create data directory
	err = os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("could not create the data directory: %w", err)
	}

	err = models.Connect(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	r, teardown, err := router.Config(cfg)
	if err != nil {
		return err
	}
	defer teardown()

	// Validate already ensures that the URL parses
	baseURL, _ := cfg.BaseURL()
	router.AttachRoutes(r.Group(baseURL.Path), cfg)

	log.Info().Str("port", cfg.Port).Msg("Starting the API")
	return r.Run(":" + cfg.Port)
}

func runInit(cmd *cobra.Command, _ []string) error {
	_, err := setup()
	if err != nil {
		return err
	}

	seed := models.DefaultSeed()

	seedFile, _ := cmd.Flags().GetString("seed")
	if seedFile != "" {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("could not open the seed file: %w", err)
		}
		defer f.Close()

		seed, err = models.ParseSeed(f)
		if err != nil {
			return err
		}
	}

	result, err := seed.Apply(models.DB)
	if err != nil {
		return err
	}

	log.Info().
		Int("houses", result.Houses).
		Int("people", result.People).
		Int("categories", result.Categories).
		Msg("Ledger initialized")

	return nil
}
