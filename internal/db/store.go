package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketdesk/assigner/internal/models"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, models.Unavailable("connect", err)
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return models.Unavailable("ping", s.Pool.Ping(ctx))
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schemaSQL)
	return models.Unavailable("migrate", err)
}

func (s *Store) ListAgents(ctx context.Context) ([]models.Agent, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, shift_start, shift_end, status FROM agents ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, models.Unavailable("list agents", err)
	}
	defer rows.Close()

	out := []models.Agent{}
	for rows.Next() {
		var (
			a          models.Agent
			shiftStart *time.Time
			shiftEnd   *time.Time
			status     *string
		)
		if err := rows.Scan(&a.ID, &a.Name, &shiftStart, &shiftEnd, &status); err != nil {
			return nil, models.Unavailable("scan agent", err)
		}
		a.ShiftStart = timestampOf(shiftStart)
		a.ShiftEnd = timestampOf(shiftEnd)
		a.Status = derefString(status)
		out = append(out, a)
	}
	return out, models.Unavailable("list agents", rows.Err())
}

func (s *Store) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, title, due_date, assigned_agent, status FROM tickets ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, models.Unavailable("list tickets", err)
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		var (
			t        models.Ticket
			dueDate  *time.Time
			assigned *string
			status   *string
		)
		if err := rows.Scan(&t.ID, &t.Title, &dueDate, &assigned, &status); err != nil {
			return nil, models.Unavailable("scan ticket", err)
		}
		t.DueDate = timestampOf(dueDate)
		t.AssignedAgent = derefString(assigned)
		t.Status = derefString(status)
		out = append(out, t)
	}
	return out, models.Unavailable("list tickets", rows.Err())
}

func (s *Store) AppendAssignment(ctx context.Context, rec models.AssignmentRecord) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO auto_assigned_tickets (id, run_id, ticket_id, title, due_date, assigned_agent, status, assigned_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, rec.ID, rec.RunID, rec.TicketID, rec.Title, rec.DueDate, rec.AssignedAgent, rec.Status, rec.AssignedAt)
	return models.Unavailable("append assignment", err)
}

func (s *Store) CreateRun(ctx context.Context, run models.Run) error {
	_, err := s.Pool.Exec(ctx, `INSERT INTO assignment_runs (id, status, started_at) VALUES ($1, $2, $3)`, run.ID, run.Status, run.StartedAt)
	return models.Unavailable("create run", err)
}

func (s *Store) FinishRun(ctx context.Context, run models.Run) error {
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `UPDATE assignment_runs SET status = $1, counts = $2, finished_at = $3 WHERE id = $4`, run.Status, counts, run.FinishedAt, run.ID)
	return models.Unavailable("finish run", err)
}

func (s *Store) LatestRun(ctx context.Context) (models.Run, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, started_at, finished_at, status, counts FROM assignment_runs ORDER BY started_at DESC LIMIT 1`)
	var (
		run    models.Run
		counts []byte
	)
	if err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &counts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Run{}, models.ErrNotFound
		}
		return models.Run{}, models.Unavailable("latest run", err)
	}
	if len(counts) > 0 {
		if err := json.Unmarshal(counts, &run.Counts); err != nil {
			return models.Run{}, err
		}
	}
	return run, nil
}

func timestampOf(t *time.Time) *models.Timestamp {
	if t == nil {
		return nil
	}
	return models.NewTimestamp(*t)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
