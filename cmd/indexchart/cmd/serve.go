package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rustyeddy/indexchart/journal"
	"github.com/rustyeddy/indexchart/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart page and chart endpoints over HTTP",
	Long: `Start the HTTP server.

Routes:
  GET /                  page with the exchange selector
  GET /charts/all.svg    every series, grouped with a legend
  GET /charts/{key}.svg  one series with tooltips ({key} is a symbol or exchange name)
  GET /charts/{key}.png  static PNG export
  GET /api/v1/series     series list as JSON
  GET /healthz           dataset status

Settings come from --config, then .env and INDEXCHART_* variables, then flags.

Example:
  indexchart serve -f server.yaml --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr string
	serveCSV  string
	serveDB   string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveCSV, "csv", "", "price CSV (Index,Date,CloseUSD)")
	serveCmd.Flags().StringVarP(&serveDB, "db", "d", "", "SQLite price store written by import")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	cfg.Data = dataSource(cfg, serveCSV, serveDB)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var load server.Loader
	if cfg.Data.CSV != "" {
		load = server.CSVLoader(cfg.Data.CSV, log)
	} else {
		db, err := journal.NewSQLite(cfg.Data.DBPath)
		if err != nil {
			return fmt.Errorf("open price db: %w", err)
		}
		defer db.Close()
		load = db.LoadDataset
	}

	store := server.NewStore(load)
	reloader := server.NewReloader(ctx, store, log)
	// a failed first load is served as an error chart until a reload succeeds
	reloader.RunNow()
	if cfg.Server.ReloadCron != "" {
		if err := reloader.Schedule(cfg.Server.ReloadCron); err != nil {
			return err
		}
		reloader.Start()
		defer reloader.Stop()
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	var redisClient *redis.Client
	if cfg.Server.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Server.RedisAddr,
			Password: cfg.Server.RedisPassword,
			DB:       cfg.Server.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
	}

	handler, err := server.NewHandler(store, *cfg, j, redisClient, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown error: %v", err)
	}
	log.Info("server stopped")
	return nil
}
