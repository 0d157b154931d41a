// Command refmatch-server runs the matching engine's HTTP façade as a
// standalone process, independent of the refmatch CLI.
//
// Usage:
//
//	refmatch-server -catalog catalog.json [-addr :8080] [-config weights.yaml]
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biorefs/refmatch/httpapi"
	"github.com/biorefs/refmatch/matchapi"
)

func main() {
	catalogPath := flag.String("catalog", "", "Catalog JSON file listing known reference genomes")
	configPath := flag.String("config", "", "Matching config YAML file overriding the default scoring weights")
	addr := flag.String("addr", ":8080", "Address to listen on")
	flag.Parse()

	logger := log.New(os.Stderr, "", 0)

	if *catalogPath == "" {
		logger.Fatal("-catalog is required")
	}

	catalogFile, err := os.Open(*catalogPath)
	if err != nil {
		logger.Fatalf("failed to open catalog file: %v", err)
	}
	refs, idx, err := matchapi.LoadCatalog(catalogFile)
	catalogFile.Close()
	if err != nil {
		logger.Fatalf("failed to load catalog: %v", err)
	}

	cfg := matchapi.DefaultMatchingConfig()
	if *configPath != "" {
		configFile, err := os.Open(*configPath)
		if err != nil {
			logger.Fatalf("failed to open config file: %v", err)
		}
		cfg, err = matchapi.LoadMatchingConfig(configFile)
		configFile.Close()
		if err != nil {
			logger.Fatalf("failed to parse config file: %v", err)
		}
	}

	srv := &httpapi.Server{Catalog: refs, Index: idx, Config: cfg}
	server := &http.Server{
		Addr:         *addr,
		Handler:      srv.NewRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Println("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Fatalf("could not gracefully shut down: %v", err)
		}
		close(done)
	}()

	logger.Printf("refmatch-server starting on http://%s", *addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("could not listen on %s: %v", *addr, err)
	}

	<-done
	logger.Println("server stopped")
}
