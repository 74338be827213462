package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/repository"
	"github.com/alexanderramin/bugtrail/internal/schedule"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/alexanderramin/bugtrail/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 15, 14, 0, 0, 0, time.UTC)

type apiFixture struct {
	router     *gin.Engine
	db         *sql.DB
	milestones service.MilestoneService
	issues     *repository.SQLiteIssueRepo
	project    *domain.Project
	ctx        context.Context
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(db)
	issues := repository.NewSQLiteIssueRepo(db)
	milestones := service.NewMilestoneService(
		repository.NewSQLiteMilestoneRepo(db), issues, projectRepo,
		repository.NewSQLitePermissionRepo(db), testutil.NewTestUoW(db),
	)
	projects := service.NewProjectService(projectRepo)

	p := testutil.NewTestProject("Core", testutil.WithKey("CORE"))
	require.NoError(t, projectRepo.Create(context.Background(), p))

	router := NewRouter(RouterDeps{
		DB:         db,
		Projects:   projects,
		Milestones: milestones,
		Actor:      domain.User{ID: "local", GroupID: "devs"},
		Registry:   prometheus.NewRegistry(),
		Version:    "test",
		Now:        func() time.Time { return fixedNow },
	})

	return &apiFixture{
		router:     router,
		db:         db,
		milestones: milestones,
		issues:     issues,
		project:    p,
		ctx:        domain.WithActor(context.Background(), domain.User{ID: "local", GroupID: "devs"}),
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *apiFixture) milestone(t *testing.T, name string, due time.Time) *domain.Milestone {
	t.Helper()
	m, err := f.milestones.Create(f.ctx, name, f.project.ID)
	require.NoError(t, err)
	if !due.IsZero() {
		m.SetScheduledDate(due)
		m.SetScheduled(true)
		require.NoError(t, f.milestones.Save(f.ctx, m))
	}
	return m
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[HealthResponse](t, rr)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "bugtrail", resp.Service)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, "up", resp.DB)
}

func TestHealthCheck_WithoutDB(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler("svc", "1.0.0", nil).RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "disabled", decode[HealthResponse](t, rr).DB)
}

func TestGetMilestone(t *testing.T) {
	f := newAPIFixture(t)
	m := f.milestone(t, "Beta", fixedNow.AddDate(0, 0, -3))
	require.NoError(t, f.issues.Create(f.ctx, testutil.NewTestIssue(f.project.ID, "a", testutil.WithMilestone(m.ID()), testutil.WithClosed())))
	require.NoError(t, f.issues.Create(f.ctx, testutil.NewTestIssue(f.project.ID, "b", testutil.WithMilestone(m.ID()))))

	rr := f.do(t, http.MethodGet, "/milestones/"+m.ID(), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[service.MilestoneSummary](t, rr)
	assert.Equal(t, "Beta", got.Name)
	assert.Equal(t, "CORE", got.ProjectKey)
	assert.Equal(t, 2, got.IssueCount)
	assert.Equal(t, 1, got.ClosedIssues)
	assert.InDelta(t, 50.0, got.Percent, 1e-9)
	assert.True(t, got.Overdue)
	assert.Equal(t, schedule.ToneLate, got.Tone)
	assert.Equal(t, "This milestone is 2 day(s) late", got.StatusText)
}

func TestGetMilestone_NotFound(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodGet, "/milestones/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "not found")
}

func TestGetMilestone_AccessDeniedForOtherGroup(t *testing.T) {
	f := newAPIFixture(t)
	m := f.milestone(t, "Beta", time.Time{})

	rr := f.do(t, http.MethodGet, "/milestones/"+m.ID(), map[string]string{HeaderGroup: "outsiders"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, http.MethodGet, "/milestones/"+m.ID(), map[string]string{HeaderUser: "someone"})
	assert.Equal(t, http.StatusOK, rr.Code, "group falls back to the configured actor")
}

func TestListByProject_ResolvesKeyAndFilters(t *testing.T) {
	f := newAPIFixture(t)
	f.milestone(t, "Alpha", fixedNow.AddDate(0, 0, 10))
	hidden := f.milestone(t, "Hidden", time.Time{})

	// No visibility setter exists on the entity; flip the stored flag directly.
	rec := hidden.Record()
	rec.Visible = false
	rec.UpdatedAt = fixedNow
	require.NoError(t, repository.NewSQLiteMilestoneRepo(f.db).Update(f.ctx, &rec))

	rr := f.do(t, http.MethodGet, "/projects/core/milestones", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[milestoneListResponse](t, rr)
	assert.Equal(t, "CORE", resp.Project.Key)
	require.Len(t, resp.Milestones, 1)
	assert.Equal(t, "Alpha", resp.Milestones[0].Name)

	rr = f.do(t, http.MethodGet, "/projects/CORE/milestones?all=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[milestoneListResponse](t, rr).Milestones, 2)

	rr = f.do(t, http.MethodGet, "/projects/CORE/milestones", map[string]string{HeaderGroup: "outsiders"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[milestoneListResponse](t, rr).Milestones)
}

func TestListByProject_UnknownProject(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodGet, "/projects/NOPE/milestones", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRefresh_MarksReachedWhenAllClosed(t *testing.T) {
	f := newAPIFixture(t)
	m := f.milestone(t, "Beta", time.Time{})
	require.NoError(t, f.issues.Create(f.ctx, testutil.NewTestIssue(f.project.ID, "a", testutil.WithMilestone(m.ID()), testutil.WithClosed())))

	rr := f.do(t, http.MethodPost, "/milestones/"+m.ID()+"/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[refreshResponse](t, rr)
	assert.True(t, resp.Marked)
	assert.True(t, resp.Milestone.Reached)
	require.NotNil(t, resp.Milestone.ReachedDate)
}

func TestRefresh_OpenIssuesLeaveUnreached(t *testing.T) {
	f := newAPIFixture(t)
	m := f.milestone(t, "Beta", time.Time{})
	require.NoError(t, f.issues.Create(f.ctx, testutil.NewTestIssue(f.project.ID, "a", testutil.WithMilestone(m.ID()))))

	rr := f.do(t, http.MethodPost, "/milestones/"+m.ID()+"/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[refreshResponse](t, rr)
	assert.False(t, resp.Marked)
	assert.False(t, resp.Milestone.Reached)
}

func TestRefresh_AlreadyReachedKeepsDate(t *testing.T) {
	f := newAPIFixture(t)
	m := f.milestone(t, "Beta", time.Time{})
	require.NoError(t, f.issues.Create(f.ctx, testutil.NewTestIssue(f.project.ID, "a", testutil.WithMilestone(m.ID()), testutil.WithClosed())))

	reachedAt := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repository.NewSQLiteMilestoneRepo(f.db).MarkReached(f.ctx, m.ID(), reachedAt))

	for range 2 {
		rr := f.do(t, http.MethodPost, "/milestones/"+m.ID()+"/refresh", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decode[refreshResponse](t, rr)
		assert.False(t, resp.Marked)
		require.NotNil(t, resp.Milestone.ReachedDate)
		assert.True(t, reachedAt.Equal(*resp.Milestone.ReachedDate))
	}

	stored, err := f.milestones.Load(f.ctx, m.ID())
	require.NoError(t, err)
	assert.True(t, reachedAt.Equal(stored.ReachedDate()))
}

func TestRefresh_DeniedForOtherGroup(t *testing.T) {
	f := newAPIFixture(t)
	m := f.milestone(t, "Beta", time.Time{})
	require.NoError(t, f.issues.Create(f.ctx, testutil.NewTestIssue(f.project.ID, "a", testutil.WithMilestone(m.ID()), testutil.WithClosed())))

	rr := f.do(t, http.MethodPost, "/milestones/"+m.ID()+"/refresh", map[string]string{HeaderGroup: "outsiders"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	stored, err := f.milestones.Load(f.ctx, m.ID())
	require.NoError(t, err)
	assert.False(t, stored.Reached())
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodGet, "/health", nil)

	rr := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "bugtrail_http_request_duration_seconds"), body)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(domain.ErrAccessDenied))
	assert.Equal(t, http.StatusUnauthorized, statusFor(domain.ErrNoActor))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.ErrPersistence))
}
