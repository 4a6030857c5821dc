// Package app wires the directory server process together.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupdir/groupdir/internal/config"
	"github.com/groupdir/groupdir/internal/db"
	internalhttp "github.com/groupdir/groupdir/internal/http"
	"github.com/groupdir/groupdir/internal/http/api"
	"github.com/groupdir/groupdir/internal/logging"
	"github.com/groupdir/groupdir/internal/service"
	log "github.com/sirupsen/logrus"
)

// Migrate opens the database and applies the schema.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the directory API server and blocks until the context
// is cancelled or the listener fails.
func RunServer(ctx context.Context, cfg config.Config) error {
	logging.Setup(cfg.Log)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := db.Seed(ctx, conn); errSeed != nil {
		return errSeed
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), internalhttp.RequestLogger())
	api.RegisterRoutes(engine, service.NewLocal(conn))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("directory server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		<-errCh
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
