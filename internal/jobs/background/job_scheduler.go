package background

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"invoicegen/internal/analytics"
	"invoicegen/internal/models"

	"github.com/go-co-op/gocron/v2"
)

// ModelRefresher reloads the cached list of upstream AI models.
type ModelRefresher interface {
	RefreshModels(ctx context.Context) ([]models.ModelInfo, error)
}

// OverdueLister finds unpaid invoices past their due date.
type OverdueLister interface {
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error)
}

// Intervals configures how often each job runs. A zero interval disables the job.
type Intervals struct {
	ModelRefresh  time.Duration
	OverdueReport time.Duration
}

// JobScheduler runs periodic maintenance in the background
type JobScheduler struct {
	scheduler gocron.Scheduler
	models    ModelRefresher
	invoices  OverdueLister
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with the jobs enabled in intervals. models may be nil
// when no AI backend is configured.
func NewJobScheduler(refresher ModelRefresher, invoices OverdueLister, intervals Intervals) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		models:    refresher,
		invoices:  invoices,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(intervals); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	slog.Info("starting background job scheduler", "jobs", js.JobCount())
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	slog.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobCount returns the number of registered jobs.
func (js *JobScheduler) JobCount() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobs)
}

func (js *JobScheduler) registerJobs(intervals Intervals) error {
	if js.models != nil && intervals.ModelRefresh > 0 {
		if err := js.add("ai-model-refresh", intervals.ModelRefresh, js.refreshModels, true); err != nil {
			return err
		}
	}
	if js.invoices != nil && intervals.OverdueReport > 0 {
		if err := js.add("overdue-report", intervals.OverdueReport, js.reportOverdue, false); err != nil {
			return err
		}
	}
	return nil
}

func (js *JobScheduler) add(name string, every time.Duration, task func(context.Context) error, immediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), every)
			defer cancel()
			if err := task(ctx); err != nil {
				slog.Error("background job failed", "job", name, "error", err)
			}
		}),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) refreshModels(ctx context.Context) error {
	list, err := js.models.RefreshModels(ctx)
	if err != nil {
		return err
	}
	slog.Info("refreshed AI model list", "models", len(list))
	return nil
}

func (js *JobScheduler) reportOverdue(ctx context.Context) error {
	_, err := js.ReportOverdue(ctx)
	return err
}

// ReportOverdue logs how many invoices are past due and unpaid. It never changes
// invoice status.
func (js *JobScheduler) ReportOverdue(ctx context.Context) (analytics.OverdueStats, error) {
	invoices, err := js.invoices.ListOverdue(ctx, js.now())
	if err != nil {
		return analytics.OverdueStats{}, fmt.Errorf("failed to list overdue invoices: %w", err)
	}

	report := analytics.SummarizeOverdue(invoices)

	slog.Info("overdue invoice report",
		"invoices", report.Invoices,
		"users", report.Users,
		"outstanding", fmt.Sprintf("%.2f", report.Outstanding))
	return report, nil
}
