package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk/assigner/internal/db"
	"github.com/ticketdesk/assigner/internal/lock"
	"github.com/ticketdesk/assigner/internal/models"
	"github.com/ticketdesk/assigner/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func shift(sec int64) *models.Timestamp {
	return &models.Timestamp{Seconds: sec}
}

func newRouter(store *db.MemoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{
		Store: store,
		Assigner: &service.AutoAssignService{
			Store:    store,
			Log:      store,
			Runs:     store,
			Lock:     &lock.Local{},
			Logger:   zerolog.Nop(),
			Location: time.UTC,
			Now:      func() time.Time { return time.Unix(500, 0) },
		},
		Logger: zerolog.Nop(),
	}
	r := gin.New()
	r.GET("/", h.Landing)
	r.GET("/healthz", h.Healthz)
	r.GET("/tickets", h.TicketsList)
	r.GET("/tickets/agents", h.TicketsByAgent)
	r.POST("/tickets/auto-assign", h.AutoAssign)
	r.GET("/agents", h.AgentsList)
	r.GET("/runs/latest", h.RunsLatest)
	return r
}

func serve(t *testing.T, r *gin.Engine, method, path string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func sampleStore() *db.MemoryStore {
	return db.NewMemoryStore(
		[]models.Agent{
			{ID: "a1", Name: "A", ShiftStart: shift(0), ShiftEnd: shift(1000), Status: "Online"},
			{ID: "a2", Name: "B", ShiftStart: shift(0), ShiftEnd: shift(1000), Status: "Online"},
		},
		[]models.Ticket{
			{ID: "t1", Title: "one", DueDate: shift(1700000000), AssignedAgent: models.AutoAssign},
			{ID: "t2", Title: "two", DueDate: shift(1700000000), AssignedAgent: models.AutoAssign},
			{ID: "t3", Title: "three", DueDate: shift(1700000000), AssignedAgent: models.AutoAssign},
			{ID: "t4", Title: "four", DueDate: shift(1700000000)},
		},
	)
}

func TestTicketsList(t *testing.T) {
	code, env := serve(t, newRouter(sampleStore()), http.MethodGet, "/tickets")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var tickets []models.Ticket
	require.NoError(t, json.Unmarshal(env.Data, &tickets))
	require.Len(t, tickets, 4)
	assert.Equal(t, "t1", tickets[0].ID)
	assert.Equal(t, int64(1700000000), tickets[0].DueDate.Seconds)
}

func TestTicketsByAgent(t *testing.T) {
	code, env := serve(t, newRouter(sampleStore()), http.MethodGet, "/tickets/agents")
	require.Equal(t, http.StatusOK, code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &counts))
	assert.Equal(t, map[string]int{models.AutoAssign: 3, models.Unassigned: 1}, counts)
}

func TestAgentsList(t *testing.T) {
	code, env := serve(t, newRouter(sampleStore()), http.MethodGet, "/agents")
	require.Equal(t, http.StatusOK, code)

	var agents []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &agents))
	require.Len(t, agents, 2)
	assert.Equal(t, "a1", agents[0]["agent_id"])
}

func TestAutoAssign(t *testing.T) {
	store := sampleStore()
	r := newRouter(store)

	code, env := serve(t, r, http.MethodPost, "/tickets/auto-assign")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var summaries []models.TicketSummary
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 4)
	assert.Equal(t, "A", summaries[0].AssignedAgent)
	assert.Equal(t, "B", summaries[1].AssignedAgent)
	assert.Equal(t, "A", summaries[2].AssignedAgent)
	assert.Equal(t, "", summaries[3].AssignedAgent)
	assert.Equal(t, "11/14/2023, 10:13:20 PM", summaries[0].DueDate)
	assert.Len(t, store.Records(), 4)

	code, env = serve(t, r, http.MethodGet, "/runs/latest")
	require.Equal(t, http.StatusOK, code)
	var run models.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, 3, run.Counts.Assigned)
}

func TestStoreFailuresAre500(t *testing.T) {
	store := sampleStore()
	store.FailList = true
	r := newRouter(store)

	for _, c := range []struct{ method, path string }{
		{http.MethodGet, "/tickets"},
		{http.MethodGet, "/tickets/agents"},
		{http.MethodGet, "/agents"},
		{http.MethodPost, "/tickets/auto-assign"},
	} {
		code, env := serve(t, r, c.method, c.path)
		assert.Equal(t, http.StatusInternalServerError, code, c.path)
		assert.False(t, env.Success, c.path)
		assert.NotEmpty(t, env.Message, c.path)
	}
}

func TestRunsLatestEmpty(t *testing.T) {
	code, env := serve(t, newRouter(sampleStore()), http.MethodGet, "/runs/latest")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestLandingPage(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(sampleStore()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/tickets/auto-assign")
}

func TestHealthzIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	store, err := db.New(context.Background(), url)
	require.NoError(t, err)
	defer store.Close()

	h := &Handler{Store: store, Logger: zerolog.Nop()}
	r := gin.New()
	r.GET("/healthz", h.Healthz)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
