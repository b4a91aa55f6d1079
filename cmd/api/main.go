package main

import (
	"context"
	"net"
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/database"
	"github.com/ayokitanulis/ayokitanulis/pkg/migrations"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/ayokitanulis/ayokitanulis/pkg/server"
	"github.com/ayokitanulis/ayokitanulis/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting ayokitanulis", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	cache, err := pagecache.New(ctx, cfg)
	if err != nil {
		log.Err(err).Fatal("page cache error")
	}
	if cfg.RedisURL == "" {
		log.Info("page cache disabled")
	}
	if !cfg.UploadsEnabled() {
		log.Warn("uploads are not configured")
	}

	srv, err := server.New(cfg, db, cache)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}
		log.Info("server started", logger.Data{"addr": listener.Addr().String()})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	if closer, ok := cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Err(err).Error("page cache close error")
		}
	}

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
