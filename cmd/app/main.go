package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/pkg/logging"

	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err = run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("dispatcher stopped")
	}
}

func run(cfg cmd.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.WithError(err).Warn("close resources")
		}
	}()

	e, err := app.CreateRouter()
	if err != nil {
		return err
	}
	e.Logger.SetLevel(echoLevel(logger.GetLevel()))

	consumer, err := app.CreateLocationConsumer()
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("port", cfg.HTTPPort).Info("http server listening")
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if consumer != nil {
		g.Go(func() error {
			logger.WithField("topic", cfg.KafkaLocationTopic).Info("location consumer started")
			return consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		errs = append(errs, e.Shutdown(shutdownCtx))
		if consumer != nil {
			errs = append(errs, consumer.Close())
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func echoLevel(level logrus.Level) log.Lvl {
	switch {
	case level >= logrus.DebugLevel:
		return log.DEBUG
	case level == logrus.InfoLevel:
		return log.INFO
	case level == logrus.WarnLevel:
		return log.WARN
	default:
		return log.ERROR
	}
}
