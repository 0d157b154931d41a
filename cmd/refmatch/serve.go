package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v2"

	"github.com/biorefs/refmatch/httpapi"
)

// runServer starts the HTTP façade in-process using the catalog and
// config already selected via the global --catalog/--config flags,
// with the same signal-driven graceful shutdown bioflow-server uses.
func runServer(Cctx *cli.Context) error {
	logger := log.New(os.Stderr, "", 0)

	refs, idx := loadCatalog(Cctx)
	cfg := loadConfig(Cctx)

	srv := &httpapi.Server{Catalog: refs, Index: idx, Config: cfg}

	addr := Cctx.String("addr")
	server := &http.Server{
		Addr:         addr,
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

	logger.Printf("refmatch server starting on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("could not listen on %s: %v", addr, err)
	}

	<-done
	logger.Println("server stopped")
	return nil
}
