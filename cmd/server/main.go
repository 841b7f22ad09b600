package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FundSnap/internal/catalog"
	"FundSnap/internal/config"
	"FundSnap/internal/ocr"
	"FundSnap/internal/pipeline"
	"FundSnap/internal/scheduler"
	"FundSnap/internal/server"
	"FundSnap/internal/store"
	"FundSnap/internal/valuation"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FundSnap starting...")

	// .env is optional; the file is only used in local development.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init watchlist store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init catalog and valuation clients
	cat := catalog.NewService(cfg.Catalog.URL)
	val := valuation.NewClient(cfg.Valuation.BaseURL)

	// Init recognition pipeline. The text endpoint receives
	// already-recognized fragments; the image endpoint needs an engine.
	// Without one, it reports the capability-unsupported outcome.
	var engine ocr.Engine
	var source ocr.ImageSource
	if os.Getenv("OCR_MOCK_ENGINE") == "true" {
		log.Println("[INFO] using mock ocr engine")
		engine = &ocr.MockEngine{}
		source = &ocr.MockSource{}
	}
	rec := ocr.NewRecognizer(engine)
	rec.StartupTimeout = time.Duration(cfg.OCR.StartupTimeoutMS) * time.Millisecond
	rec.ResultTimeout = time.Duration(cfg.OCR.ResultTimeoutMS) * time.Millisecond
	pipe := pipeline.New(cat, source, rec)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cat)
	if err := sched.RegisterAll(cfg.Catalog.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: warm the catalog immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing catalog now")
		go sched.RunRefreshNow()
	}

	// Init HTTP server
	srv := server.New(st, cat, val, pipe)
	httpSrv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] FundSnap is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] FundSnap stopped")
}
