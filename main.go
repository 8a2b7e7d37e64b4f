package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"driftboard/internal/cli"
	"driftboard/internal/discovery"
	"driftboard/internal/httpserver"
	"driftboard/internal/persist"
	"driftboard/internal/session"
)

func main() {
	if err := cli.NewRootCommand(run).Execute(); err != nil {
		log.New(os.Stderr, "", log.LstdFlags).Fatalf("driftboard: %v", err)
	}
}

func run(cfg cli.Config) error {
	logger := log.New(os.Stderr, "[driftboard] ", log.LstdFlags)

	backend, err := persist.NewFileStore(cfg.SessionsDir)
	if err != nil {
		return fmt.Errorf("open sessions dir: %w", err)
	}

	store := session.NewStore(backend, log.New(os.Stderr, "[session] ", log.LstdFlags))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := new(sync.WaitGroup)

	loop := persist.NewLoop(backend, time.Duration(cfg.BackupInterval)*time.Second, func() []persist.SessionSweeper {
		sessions := store.All()
		out := make([]persist.SessionSweeper, len(sessions))
		for i, s := range sessions {
			out[i] = s
		}
		return out
	}, log.New(os.Stderr, "[persist] ", log.LstdFlags))

	wg.Add(1)
	go loop.Run(ctx, wg)

	srv := &httpserver.Server{
		Store:            store,
		Flush:            loop,
		PublicDir:        cfg.PublicDir,
		OutboundQueueCap: cfg.OutboundQueueCap,
		Log:              log.New(os.Stderr, "[http] ", log.LstdFlags),
	}
	router := httpserver.NewRouter(srv)

	httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: router}

	if cfg.Advertise {
		mdnsServer, err := discovery.Advertise(cfg.Port)
		if err != nil {
			logger.Printf("mDNS advertisement failed to start: %v", err)
		} else {
			defer mdnsServer.Shutdown()
			logger.Printf("advertising on the LAN as driftboard, reachable at %s:%d", discovery.OutgoingIP(), cfg.Port)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Printf("listening on :%d (sessions=%s, public=%s)", cfg.Port, cfg.SessionsDir, cfg.PublicDir)
		var serveErr error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			serveErr = httpSrv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			serveErr = httpSrv.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Printf("http server stopped: %v", serveErr)
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	logger.Printf("signal caught: %v, shutting down", sig)

	cancel()
	_ = httpSrv.Close()
	wg.Wait()

	return nil
}
