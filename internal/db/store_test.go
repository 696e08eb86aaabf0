package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk/assigner/internal/models"
)

func TestStoreIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := New(ctx, url)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	agentID := uuid.NewString()
	_, err = store.Pool.Exec(ctx, `INSERT INTO agents (id, name, shift_start, shift_end, status) VALUES ($1, 'A', NOW(), NULL, 'Online')`, agentID)
	require.NoError(t, err)
	ticketID := uuid.NewString()
	_, err = store.Pool.Exec(ctx, `INSERT INTO tickets (id, title, due_date, assigned_agent) VALUES ($1, 'printer', NOW(), 'Auto Assign')`, ticketID)
	require.NoError(t, err)

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)
	var found *models.Agent
	for i := range agents {
		if agents[i].ID == agentID {
			found = &agents[i]
		}
	}
	require.NotNil(t, found)
	assert.NotNil(t, found.ShiftStart)
	assert.Nil(t, found.ShiftEnd)

	tickets, err := store.ListTickets(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tickets)

	runID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.CreateRun(ctx, models.Run{ID: runID, StartedAt: now, Status: "RUNNING"}))
	require.NoError(t, store.AppendAssignment(ctx, models.AssignmentRecord{
		ID: uuid.NewString(), RunID: runID, TicketID: ticketID, Title: "printer",
		DueDate: "1/1/2024, 9:00:00 AM", AssignedAgent: "A", Status: "Pending", AssignedAt: now,
	}))
	finished := now.Add(time.Second)
	require.NoError(t, store.FinishRun(ctx, models.Run{ID: runID, StartedAt: now, FinishedAt: &finished, Status: "FINISHED", Counts: models.RunCounts{Assigned: 1}}))

	run, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, 1, run.Counts.Assigned)
}
