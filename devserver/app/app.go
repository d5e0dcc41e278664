package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/livraria/devserver/config"
	"github.com/Astemirdum/livraria/devserver/internal/handler"
	"github.com/Astemirdum/livraria/devserver/internal/repository"
	"github.com/Astemirdum/livraria/devserver/internal/server"
	"github.com/Astemirdum/livraria/devserver/internal/service"
	"github.com/Astemirdum/livraria/devserver/migrations"
	"github.com/Astemirdum/livraria/pkg/kafka"
	"github.com/Astemirdum/livraria/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewRouter builds the API on its own database. The returned cleanup
// closes the database and the event producer.
func NewRouter(ctx context.Context, cfg config.Config, log *zap.Logger) (*echo.Echo, func(), error) {
	db, err := repository.NewSQLiteDB(ctx, cfg.Database, migrations.MigrationFiles, log)
	if err != nil {
		return nil, nil, errors.Wrap(err, "db init")
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "repo")
	}
	svc := service.NewService(repo, log)
	if cfg.Database.Seed {
		if err := svc.Seed(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		if producer, err = kafka.NewSyncProducer(cfg.Kafka); err != nil {
			db.Close()
			return nil, nil, errors.Wrap(err, "kafka.NewSyncProducer")
		}
	}

	h := handler.New(svc, handler.NewEnqueuer(producer, cfg.Kafka.Topic), log)
	cleanup := func() {
		if producer != nil {
			if err := producer.Close(); err != nil {
				log.Error("producer.Close", zap.Error(err))
			}
		}
		if err := db.Close(); err != nil {
			log.Error("db.Close", zap.Error(err))
		}
	}
	return h.NewRouter(), cleanup, nil
}

func Run(cfg config.Config) error {
	log := logger.NewLogger(cfg.Log, "devserver")
	defer log.Sync() //nolint:errcheck

	router, cleanup, err := NewRouter(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.NewServer(cfg.Server, router)
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case err := <-errCh:
		if err != nil {
			log.Error("server run", zap.Error(err))
			return err
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}
