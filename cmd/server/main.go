package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"legisboard/internal/api"
	"legisboard/internal/config"
	"legisboard/internal/process"
	"legisboard/internal/state"
	"legisboard/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "legisboard",
	Short:   "Backend for the legislative record dashboard",
	Long:    "legisboard reads the mociones corpus from PostgreSQL, reconciles schema drift across collection eras, derives the target deputy's dataset and serves per-view projections over HTTP.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		zcfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the corpus and serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		pg, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer pg.Close()

		container := state.NewContainer()
		handler := api.NewHandler(pg, process.NewProcessor(logger), container, logger)

		// Initial load. The server still comes up on failure so the
		// frontend sees the error state and can trigger a reload.
		if err := handler.Load(cmd.Context()); err != nil {
			logger.Warn("initial load failed, serving error state", zap.Error(err))
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(middleware.RealIP)

		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("legisboard backend is running"))
		})
		handler.RegisterRoutes(r)

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.Strings("cors_origins", cfg.Server.CORSOrigins))
		return http.ListenAndServe(addr, r)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify database connectivity and table row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		pg, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer pg.Close()

		counts, err := pg.Counts(cmd.Context())
		if err != nil {
			return err
		}
		for _, table := range []string{store.TableMociones, store.TableCoautores, store.TableDiputados, store.TableAnalisis} {
			fmt.Printf("%-15s %d rows\n", table, counts[table])
		}
		return nil
	},
}
