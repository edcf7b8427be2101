// Command site-server serves the built ArcUp site, the WASM controller and
// the contact relay.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/arcup/arcup-web/internal/assets"
	"github.com/arcup/arcup-web/internal/config"
	"github.com/arcup/arcup-web/internal/contact"
	"github.com/arcup/arcup-web/internal/contact/contactapi"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/logging"
)

const (
	shutdownTimeout = 10 * time.Second
	logFileName     = "site-server.log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "site-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("site-server", pflag.ContinueOnError)
	flags := config.RegisterFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store := content.NewStore(nil)
	if cfg.CatalogPath != "" {
		catalog, err := content.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}
		store.Replace(catalog)
	}

	handler, err := newHandler(cfg, store, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return context.Background()
		},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server", "started", map[string]any{
			"addr":        cfg.ListenAddr,
			"static_dir":  cfg.StaticDir,
			"environment": cfg.Environment,
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("server", "shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server", "stopped", nil)
		return nil
	})
	if cfg.CatalogPath != "" {
		g.Go(func() error {
			return config.WatchCatalog(ctx, cfg.CatalogPath, store, logger)
		})
	}
	return g.Wait()
}

// newHandler routes the contact relay, the published catalog and the static
// site behind request logging.
func newHandler(cfg config.Config, store *content.Store, logger *logging.Logger) (http.Handler, error) {
	static, err := assets.NewHandler(cfg.StaticDir, logger)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle(contactapi.Path, contact.NewHandlerFromConfig(cfg, store, logger))
	mux.Handle(content.Path, content.Handler(store))
	mux.Handle("/", static)
	return logging.NewHTTPLogger(logger).Middleware(mux), nil
}

func newLogger(cfg config.Config) (*logging.Logger, func(), error) {
	writers := []io.Writer{os.Stdout}
	closeFn := func() {}
	if cfg.LogDir != "" {
		fw, err := logging.NewFileWriter(cfg.LogDir, logFileName, logging.Rotation{
			MaxBytes: int64(cfg.LogFiles.MaxSizeMB) << 20,
			MaxFiles: cfg.LogFiles.MaxFiles,
			MaxAge:   cfg.LogFiles.MaxAge,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, fw)
		closeFn = func() { _ = fw.Close() }
	}
	return logging.New("site-server", logging.ParseLevel(cfg.LogLevel), writers...), closeFn, nil
}
