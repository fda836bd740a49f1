package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookworm/internal/handlers"
	"bookworm/internal/logger"
	"bookworm/internal/repository"
	"bookworm/internal/repository/db"
	"bookworm/internal/server"
	"bookworm/internal/service"

	"github.com/spf13/viper"
)

const defaultSweepInterval = 1 * time.Hour

func main() {
	// load config.yml first so the logger level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	dbConn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := dbConn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(dbConn)
	services := service.NewService(repos, serviceConfig(log), log)
	webHandler := handlers.NewHandler(services, log, handlerConfig())

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start session expiry sweeper
	go services.Sweeper.Run(ctx, sweepInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), webHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "bookworm.db")
		dbPath = "bookworm.db"
	}
	return db.InitDB(dbPath)
}

// serviceConfig reads the session knobs. The cookie-signing secret has
// no sane default.
func serviceConfig(log *logger.Logger) service.Config {
	secret := viper.GetString("session.secret")
	if secret == "" {
		log.Fatalw("session.secret is required in config")
	}
	return service.Config{
		SessionSecret: secret,
		SessionTTL:    viper.GetDuration("session.ttl"),
	}
}

func handlerConfig() handlers.Config {
	return handlers.Config{
		CookieName: viper.GetString("session.cookie"),
	}
}

func sweepInterval() time.Duration {
	if d := viper.GetDuration("session.sweep_interval"); d > 0 {
		return d
	}
	return defaultSweepInterval
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "3000"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
