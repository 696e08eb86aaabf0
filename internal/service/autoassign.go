package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/ticketdesk/assigner/internal/lock"
	"github.com/ticketdesk/assigner/internal/metrics"
	"github.com/ticketdesk/assigner/internal/models"
)

const (
	RunStatusRunning  = "RUNNING"
	RunStatusFinished = "FINISHED"
)

var ErrRunInProgress = errors.New("auto-assign already running")

// Reader lists the records a run works on. Failures are fatal to the run.
type Reader interface {
	ListAgents(ctx context.Context) ([]models.Agent, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
}

// AssignmentLog is a best-effort side channel: a failed append is logged and
// counted, never returned to the caller.
type AssignmentLog interface {
	AppendAssignment(ctx context.Context, rec models.AssignmentRecord) error
}

// RunLog records run bookkeeping, also best effort.
type RunLog interface {
	CreateRun(ctx context.Context, run models.Run) error
	FinishRun(ctx context.Context, run models.Run) error
}

type AutoAssignService struct {
	Store  Reader
	Log    AssignmentLog
	Runs   RunLog
	Lock   lock.Locker
	Logger zerolog.Logger

	Location          *time.Location
	AppendConcurrency int
	Now               func() time.Time
}

type Result struct {
	RunID     string                 `json:"run_id"`
	Summaries []models.TicketSummary `json:"summaries"`
	Counts    models.RunCounts       `json:"counts"`
}

// Run performs one auto-assign pass: read agents and tickets, plan, then
// append one record per ticket.
func (s *AutoAssignService) Run(ctx context.Context) (Result, error) {
	if s.Lock != nil {
		release, err := s.Lock.Acquire(ctx)
		if err != nil {
			if errors.Is(err, lock.ErrHeld) {
				metrics.RunsTotal.WithLabelValues("busy").Inc()
				return Result{}, ErrRunInProgress
			}
			metrics.RunsTotal.WithLabelValues("failed").Inc()
			return Result{}, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.Logger.Warn().Err(err).Msg("failed to release run lock")
			}
		}()
	}

	start := time.Now()
	defer func() { metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	agents, tickets, err := s.load(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	now := s.now()
	run := models.Run{ID: uuid.NewString(), StartedAt: now, Status: RunStatusRunning}
	s.createRun(ctx, run)

	plan := PlanAssignments(tickets, agents, now, s.Location)
	metrics.AvailableAgents.Set(float64(len(plan.Available)))

	counts := models.RunCounts{
		Tickets:       len(tickets),
		Malformed:     len(plan.Malformed),
		AgentsTotal:   len(agents),
		AgentsOnShift: len(plan.Available),
	}
	for _, err := range plan.Malformed {
		var rec *models.RecordError
		kind := "unknown"
		if errors.As(err, &rec) {
			kind = rec.Collection
		}
		metrics.MalformedRecords.WithLabelValues(kind).Inc()
		s.Logger.Warn().Err(err).Str("kind", kind).Msg("skipping malformed record")
	}

	summaries := make([]models.TicketSummary, 0, len(plan.Decisions))
	records := make([]models.AssignmentRecord, 0, len(plan.Decisions))
	for _, d := range plan.Decisions {
		if IsPendingForScheduling(d.Ticket) {
			counts.Pending++
			if d.Assigned {
				counts.Assigned++
			} else {
				counts.LeftPending++
			}
		}
		summaries = append(summaries, d.Summary)
		records = append(records, models.AssignmentRecord{
			ID:            uuid.NewString(),
			RunID:         run.ID,
			TicketID:      d.Ticket.ID,
			Title:         d.Summary.Title,
			DueDate:       d.Summary.DueDate,
			AssignedAgent: d.Summary.AssignedAgent,
			Status:        d.Summary.Status,
			AssignedAt:    now,
		})
	}
	metrics.TicketsAssigned.Add(float64(counts.Assigned))
	metrics.TicketsLeftPending.Add(float64(counts.LeftPending))

	counts.AppendFailures = s.persist(ctx, records)

	finished := s.now()
	run.FinishedAt = &finished
	run.Status = RunStatusFinished
	run.Counts = counts
	s.finishRun(ctx, run)

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	s.Logger.Info().
		Str("run_id", run.ID).
		Int("tickets", counts.Tickets).
		Int("assigned", counts.Assigned).
		Int("left_pending", counts.LeftPending).
		Int("append_failures", counts.AppendFailures).
		Msg("auto-assign finished")

	return Result{RunID: run.ID, Summaries: summaries, Counts: counts}, nil
}

// load fetches agents and tickets concurrently. Either failure aborts the run.
func (s *AutoAssignService) load(ctx context.Context) ([]models.Agent, []models.Ticket, error) {
	var (
		agents  []models.Agent
		tickets []models.Ticket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		agents, err = s.Store.ListAgents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tickets, err = s.Store.ListTickets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return agents, tickets, nil
}

// persist appends every record independently and returns how many failed.
func (s *AutoAssignService) persist(ctx context.Context, records []models.AssignmentRecord) int {
	if s.Log == nil {
		return 0
	}
	var failures atomic.Int64
	p := pool.New().WithMaxGoroutines(s.appendConcurrency())
	for _, rec := range records {
		p.Go(func() {
			if err := s.Log.AppendAssignment(ctx, rec); err != nil {
				failures.Add(1)
				metrics.AppendFailures.Inc()
				s.Logger.Error().Err(err).Str("ticket_id", rec.TicketID).Str("title", rec.Title).Msg("failed to save assigned ticket")
				return
			}
			s.Logger.Debug().Str("title", rec.Title).Str("agent", rec.AssignedAgent).Msg("assigned ticket saved")
		})
	}
	p.Wait()
	return int(failures.Load())
}

func (s *AutoAssignService) createRun(ctx context.Context, run models.Run) {
	if s.Runs == nil {
		return
	}
	if err := s.Runs.CreateRun(ctx, run); err != nil {
		s.Logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to create run")
	}
}

func (s *AutoAssignService) finishRun(ctx context.Context, run models.Run) {
	if s.Runs == nil {
		return
	}
	if err := s.Runs.FinishRun(ctx, run); err != nil {
		s.Logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to finish run")
	}
}

func (s *AutoAssignService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AutoAssignService) appendConcurrency() int {
	if s.AppendConcurrency <= 0 {
		return 1
	}
	return s.AppendConcurrency
}
