package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/mockapi"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":8000", "listen address")
	seed := flag.Bool("seed", true, "start with sample products")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, err := logging.New(logging.Config{
		Level:             *logLevel,
		Encoding:          "console",
		IsDevelopment:     true,
		DisableStacktrace: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront-mock: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var products []api.Product
	if *seed {
		products = sampleProducts()
	}
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.New(log, products...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", *addr), zap.Int("products", len(products)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
			return 1
		}
		log.Info("stopped")
	}
	return 0
}

func sampleProducts() []api.Product {
	return []api.Product{
		{ID: 1, Name: "Fountain Pen", Description: "Steel nib, blue ink cartridge included", Price: 24.5, Stock: 12},
		{ID: 2, Name: "Notebook A5", Description: "Dotted, 160 pages", Price: 9.99, Stock: 40},
		{ID: 3, Name: "Desk Lamp", Description: "LED, adjustable arm", Price: 39, Stock: 3},
		{ID: 4, Name: "Ink Bottle", Description: "50ml, black", Price: 7.25, Stock: 0},
	}
}
