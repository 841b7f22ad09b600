package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"FundSnap/internal/catalog"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Catalog *catalog.Service
	Ctx     context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cat *catalog.Service) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Catalog: cat,
		Ctx:     ctx,
	}
}

// RegisterAll registers the catalog refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshCatalog); err != nil {
		return fmt.Errorf("register catalog refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the catalog refresh immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshCatalog()
}

func (s *Scheduler) refreshCatalog() {
	log.Println("[INFO] running catalog refresh")
	ctx, cancel := context.WithTimeout(s.Ctx, 60*time.Second)
	defer cancel()
	if err := s.Catalog.Refresh(ctx); err != nil {
		log.Printf("[ERROR] catalog refresh: %v", err)
		return
	}
	log.Println("[INFO] catalog refreshed")
}
