package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"inventory/config"
	"inventory/handler"
	"inventory/logging"
	"inventory/manager"
	"inventory/predictor"
)

var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	args, err := config.ParseArgs(os.Args[0], os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if args.Version {
		fmt.Println(version)
		return
	}

	if err := run(args); err != nil {
		logging.GetLogger().Fatal(err)
	}
}

func run(args *config.CliConfig) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(args.ConfigFile)
	if err != nil {
		return err
	}

	if err := logging.Configure(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return err
	}
	log := logging.GetLogger()
	if args.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	var runnerOpts []predictor.Option
	if log.IsLevelEnabled(logrus.DebugLevel) {
		stderrLog := log.WriterLevel(logrus.DebugLevel)
		defer stderrLog.Close()
		runnerOpts = append(runnerOpts, predictor.WithStderr(stderrLog))
	}

	runner, err := predictor.NewRunner(cfg.Predictor, runnerOpts...)
	if err != nil {
		return err
	}

	cm := manager.NewConcurrencyManager(cfg.Predictor.MaxConcurrent, cfg.Predictor.QueueTimeout)
	defer cm.Shutdown()

	server := &http.Server{
		Addr:              cfg.ListenAddress(),
		Handler:           handler.NewRouter(handler.NewPredictHandler(runner, cm)),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          stdlog.New(log.WriterLevel(logrus.WarnLevel), "", 0),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Backend server listening at http://localhost:%d", cfg.Port)
		log.Debugf("Prediction command: %q", cfg.Predictor.Command)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
