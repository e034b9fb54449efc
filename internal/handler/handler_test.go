package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"assignment_service/internal/cache"
	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
	"assignment_service/internal/handler"
	"assignment_service/internal/handler/mocks"
	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
	"assignment_service/internal/middleware"
)

var (
	ownerID = uuid.MustParse("0190c1a8-7b1e-7cc0-8000-0000000000aa")
	otherID = uuid.MustParse("0190c1a8-7b1e-7cc0-8000-0000000000bb")
	stamp   = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
)

// fakeAuth accepts "Basic owner" and "Basic other" and rejects everything else.
type fakeAuth struct {
	calls int
}

func (a *fakeAuth) Authenticate(_ context.Context, header string) (domain.Principal, error) {
	a.calls++
	switch header {
	case "Basic owner":
		return domain.Principal{UserID: ownerID, Email: "owner@example.com"}, nil
	case "Basic other":
		return domain.Principal{UserID: otherID, Email: "other@example.com"}, nil
	}
	return domain.Principal{}, errdefs.ErrUnauthenticated
}

type memoryCache struct {
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	c.data[key] = data
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	delete(c.data, key)
}

type testServer struct {
	router      http.Handler
	assignments *mocks.MockAssignmentService
	submissions *mocks.MockSubmissionService
	health      *mocks.MockHealthChecker
	auth        *fakeAuth
	cache       *memoryCache
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ts := &testServer{
		assignments: mocks.NewMockAssignmentService(ctrl),
		submissions: mocks.NewMockSubmissionService(ctrl),
		health:      mocks.NewMockHealthChecker(ctrl),
		auth:        &fakeAuth{},
		cache:       &memoryCache{data: map[string][]byte{}},
	}
	ts.router = handler.NewRouter(handler.RouterConfig{
		Logger:      logging.NewNop(),
		Metrics:     metrics.NewPrometheus(),
		Health:      handler.NewHealthHandler(ts.health, metrics.Nop()),
		Assignments: handler.NewAssignmentHandler(ts.assignments, ts.cache, time.Minute),
		Submissions: handler.NewSubmissionHandler(ts.submissions),
		HealthGate:  middleware.NewHealthGate(ts.health),
		Auth:        middleware.NewAuthMiddleware(ts.auth),
	})
	return ts
}

func (ts *testServer) healthy() {
	ts.health.EXPECT().Check(gomock.Any()).Return(nil).AnyTimes()
}

func (ts *testServer) do(method, path, auth, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	if auth != "" {
		r.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, r)
	return w
}

func sampleAssignment() *domain.Assignment {
	return &domain.Assignment{
		ID:                uuid.MustParse("0190c1a8-7b1e-7cc0-8000-000000000001"),
		UserID:            ownerID,
		Name:              "Homework 1",
		Points:            5,
		NumOfAttempts:     2,
		Deadline:          time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		AssignmentCreated: stamp,
		AssignmentUpdated: stamp,
	}
}

const validAssignmentBody = `{"name":"Homework 1","points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00.000Z"}`

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ── healthz ─────────────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, middleware.NoCacheValue, w.Header().Get("Cache-Control"))
		assert.Equal(t, "Database is healthy", decode(t, w)["message"])
	})

	t.Run("Unhealthy", func(t *testing.T) {
		ts := newTestServer(t)
		ts.health.EXPECT().Check(gomock.Any()).Return(errdefs.ErrUnavailable)

		w := ts.do(http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, middleware.NoCacheValue, w.Header().Get("Cache-Control"))
	})

	t.Run("WrongMethod", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(http.MethodPost, "/healthz", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("QueryParams", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(http.MethodGet, "/healthz?verbose=1", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Body", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(http.MethodGet, "/healthz", "", `{"a":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ── routing ─────────────────────────────────────────────────────────

func TestRouting(t *testing.T) {
	t.Run("UnknownPath", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(http.MethodGet, "/nope", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not Found", decode(t, w)["error"])
	})

	t.Run("UnsupportedMethod", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(http.MethodPatch, "/assignments", "Basic owner", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHealthGateRunsBeforeAuth(t *testing.T) {
	ts := newTestServer(t)
	ts.health.EXPECT().Check(gomock.Any()).Return(errdefs.ErrUnavailable).AnyTimes()

	requests := []struct{ method, path, body string }{
		{http.MethodGet, "/assignments", ""},
		{http.MethodPost, "/assignments", validAssignmentBody},
		{http.MethodGet, "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001", ""},
		{http.MethodPut, "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001", validAssignmentBody},
		{http.MethodDelete, "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001", ""},
		{http.MethodPost, "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001/submissions", `{"submission_url":"https://example.com/a"}`},
		{http.MethodGet, "/healthz", ""},
	}
	for _, req := range requests {
		w := ts.do(req.method, req.path, "Basic owner", req.body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "%s %s", req.method, req.path)
		assert.Equal(t, middleware.NoCacheValue, w.Header().Get("Cache-Control"), "%s %s", req.method, req.path)
	}
	assert.Zero(t, ts.auth.calls)
}

// ── assignments ─────────────────────────────────────────────────────

func TestCreateAssignment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Create(gomock.Any(), &domain.AssignmentInput{
			Name:          "Homework 1",
			Points:        5,
			NumOfAttempts: 2,
			Deadline:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		}).Return(sampleAssignment(), nil)

		w := ts.do(http.MethodPost, "/assignments", "Basic owner", validAssignmentBody)
		require.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "0190c1a8-7b1e-7cc0-8000-000000000001", body["id"])
		assert.Equal(t, "Homework 1", body["name"])
		assert.EqualValues(t, 5, body["points"])
		assert.EqualValues(t, 2, body["num_of_attempts"])
		assert.Equal(t, "2026-06-01T00:00:00.000Z", body["deadline"])
		assert.Equal(t, "2026-05-01T10:00:00.000Z", body["assignment_created"])
		assert.Equal(t, "2026-05-01T10:00:00.000Z", body["assignment_updated"])
	})

	t.Run("ClientTimestampsIgnored", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sampleAssignment(), nil)

		body := `{"name":"Homework 1","points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00Z",` +
			`"assignment_created":"1999-01-01T00:00:00Z","assignment_updated":"1999-01-01T00:00:00Z"}`
		w := ts.do(http.MethodPost, "/assignments", "Basic owner", body)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2026-05-01T10:00:00.000Z", decode(t, w)["assignment_created"])
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodPost, "/assignments", "Basic nobody", validAssignmentBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	invalid := []struct {
		name string
		body string
	}{
		{"EmptyObject", `{}`},
		{"ExtraKey", `{"name":"a","points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00Z","extra":1}`},
		{"MissingDeadline", `{"name":"a","points":5,"num_of_attempts":2}`},
		{"FractionalAttempts", `{"name":"a","points":5,"num_of_attempts":1.5,"deadline":"2026-06-01T00:00:00Z"}`},
		{"StringAttempts", `{"name":"a","points":5,"num_of_attempts":"1","deadline":"2026-06-01T00:00:00Z"}`},
		{"PointsOutOfRange", `{"name":"a","points":11,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00Z"}`},
		{"AttemptsOutOfRange", `{"name":"a","points":5,"num_of_attempts":101,"deadline":"2026-06-01T00:00:00Z"}`},
		{"EmptyName", `{"name":"","points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00Z"}`},
		{"NumericName", `{"name":7,"points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00Z"}`},
		{"DeadlineWithoutZ", `{"name":"a","points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00"}`},
		{"DeadlineWithOffset", `{"name":"a","points":5,"num_of_attempts":2,"deadline":"2026-06-01T00:00:00+02:00"}`},
		{"NotJSON", `name=a`},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.healthy()

			w := ts.do(http.MethodPost, "/assignments", "Basic owner", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestListAssignments(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().List(gomock.Any()).Return([]*domain.Assignment{}, nil)

		w := ts.do(http.MethodGet, "/assignments", "Basic other", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Populated", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().List(gomock.Any()).Return([]*domain.Assignment{sampleAssignment()}, nil)

		w := ts.do(http.MethodGet, "/assignments", "Basic other", "")
		require.Equal(t, http.StatusOK, w.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Homework 1", list[0]["name"])
		assert.NotContains(t, list[0], "user_id")
	})
}

func TestGetAssignment(t *testing.T) {
	const path = "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001"

	t.Run("OpenToEveryUserAndCached", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Get(gomock.Any(), sampleAssignment().ID).Return(sampleAssignment(), nil).Times(1)

		first := ts.do(http.MethodGet, path, "Basic other", "")
		require.Equal(t, http.StatusOK, first.Code)
		second := ts.do(http.MethodGet, path, "Basic other", "")
		require.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Contains(t, ts.cache.data, cache.AssignmentKey(sampleAssignment().ID.String()))
	})

	t.Run("DeleteDuringFillSkipsCache", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Delete(gomock.Any(), sampleAssignment().ID).Return(nil)
		ts.assignments.EXPECT().Get(gomock.Any(), sampleAssignment().ID).DoAndReturn(
			func(context.Context, uuid.UUID) (*domain.Assignment, error) {
				// the row is read, then deleted before the response is cached
				deleted := ts.do(http.MethodDelete, path, "Basic owner", "")
				require.Equal(t, http.StatusNoContent, deleted.Code)
				return sampleAssignment(), nil
			})

		w := ts.do(http.MethodGet, path, "Basic other", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, ts.cache.data, cache.AssignmentKey(sampleAssignment().ID.String()))
	})

	t.Run("CacheRequiresAuth", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.cache.data[cache.AssignmentKey(sampleAssignment().ID.String())] = []byte(`{"name":"cached"}`)

		w := ts.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errdefs.ErrNotFound)

		w := ts.do(http.MethodGet, path, "Basic owner", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MalformedID", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodGet, "/assignments/not-a-uuid", "Basic owner", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		w := ts.do(http.MethodGet, path, "Basic owner", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUpdateAssignment(t *testing.T) {
	const path = "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001"

	t.Run("OwnerInvalidatesCache", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		key := cache.AssignmentKey(sampleAssignment().ID.String())
		ts.cache.data[key] = []byte(`{}`)
		ts.assignments.EXPECT().Update(gomock.Any(), sampleAssignment().ID, gomock.Any()).Return(sampleAssignment(), nil)

		w := ts.do(http.MethodPut, path, "Basic owner", validAssignmentBody)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.NotContains(t, ts.cache.data, key)
	})

	t.Run("NonOwner", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errdefs.ErrPermissionDenied)

		w := ts.do(http.MethodPut, path, "Basic other", validAssignmentBody)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodPut, path, "Basic owner", `{"name":"a"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteAssignment(t *testing.T) {
	const path = "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001"

	t.Run("Owner", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Delete(gomock.Any(), sampleAssignment().ID).Return(nil)

		w := ts.do(http.MethodDelete, path, "Basic owner", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("BodyRejected", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodDelete, path, "Basic owner", `{"force":true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonOwner", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.assignments.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errdefs.ErrPermissionDenied)

		w := ts.do(http.MethodDelete, path, "Basic other", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// ── submissions ─────────────────────────────────────────────────────

func TestCreateSubmission(t *testing.T) {
	const path = "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001/submissions"
	assignmentID := sampleAssignment().ID

	stored := func(attempts int, url string) *domain.Submission {
		return &domain.Submission{
			ID:                uuid.MustParse("0190c1a8-7b1e-7cc0-8000-0000000000cc"),
			AssignmentID:      assignmentID,
			UserID:            otherID,
			SubmissionURL:     url,
			Attempts:          attempts,
			SubmissionDate:    stamp,
			SubmissionUpdated: stamp.Add(time.Duration(attempts) * time.Minute),
		}
	}

	t.Run("FirstAttempt", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.submissions.EXPECT().Submit(gomock.Any(), assignmentID, "https://example.com/v1.zip").
			Return(&domain.SubmissionResult{Submission: stored(1, "https://example.com/v1.zip"), Created: true}, nil)

		w := ts.do(http.MethodPost, path, "Basic other", `{"submission_url":"https://example.com/v1.zip"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 1, body["attempts"])
		assert.Equal(t, otherID.String(), body["user_id"])
		assert.Equal(t, assignmentID.String(), body["assignment_id"])
		assert.NotContains(t, body, "warning")
	})

	t.Run("Resubmission", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.submissions.EXPECT().Submit(gomock.Any(), assignmentID, "https://example.com/v2.zip").
			Return(&domain.SubmissionResult{Submission: stored(2, "https://example.com/v2.zip")}, nil)

		w := ts.do(http.MethodPost, path, "Basic other", `{"submission_url":"https://example.com/v2.zip"}`)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 2, body["attempts"])
		assert.Equal(t, "https://example.com/v2.zip", body["submission_url"])
	})

	t.Run("NotificationFailed", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.submissions.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.SubmissionResult{
				Submission: stored(1, "https://example.com/v1.zip"),
				Created:    true,
				NotifyErr:  errdefs.ErrNotificationFailed,
			}, nil)

		w := ts.do(http.MethodPost, path, "Basic other", `{"submission_url":"https://example.com/v1.zip"}`)
		require.Equal(t, http.StatusBadGateway, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 1, body["attempts"])
		assert.NotEmpty(t, body["warning"])
	})

	rejections := []struct {
		name   string
		err    error
		status int
	}{
		{"DeadlinePassed", errdefs.ErrDeadlinePassed, http.StatusForbidden},
		{"AttemptsExceeded", errdefs.ErrAttemptsExceeded, http.StatusForbidden},
		{"AssignmentMissing", errdefs.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.healthy()
			ts.submissions.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			w := ts.do(http.MethodPost, path, "Basic other", `{"submission_url":"https://example.com/v1.zip"}`)
			assert.Equal(t, tc.status, w.Code)
		})
	}

	invalid := []struct {
		name string
		body string
	}{
		{"EmptyObject", `{}`},
		{"ExtraKey", `{"submission_url":"https://example.com/a","note":"x"}`},
		{"NotAURL", `{"submission_url":"not-a-url"}`},
		{"NotAString", `{"submission_url":42}`},
		{"Null", `{"submission_url":null}`},
		{"TrailingBrace", `{"submission_url":"https://example.com/a"}}`},
		{"TrailingBracket", `{"submission_url":"https://example.com/a"}]`},
		{"DuplicateKey", `{"submission_url":"not-a-url","submission_url":"https://example.com/a"}`},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.healthy()

			w := ts.do(http.MethodPost, path, "Basic other", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("MalformedIDWithInvalidBody", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodPost, "/assignments/not-a-uuid/submissions", "Basic other", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MalformedIDWithValidBody", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodPost, "/assignments/not-a-uuid/submissions", "Basic other", `{"submission_url":"https://example.com/a"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodPost, path, "", `{"submission_url":"https://example.com/a"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetSubmission(t *testing.T) {
	const path = "/assignments/0190c1a8-7b1e-7cc0-8000-000000000001/submissions"
	assignmentID := sampleAssignment().ID

	t.Run("OwnSubmission", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.submissions.EXPECT().Get(gomock.Any(), assignmentID).Return(&domain.Submission{
			ID:                uuid.MustParse("0190c1a8-7b1e-7cc0-8000-0000000000cc"),
			AssignmentID:      assignmentID,
			UserID:            otherID,
			SubmissionURL:     "https://example.com/v2.zip",
			Attempts:          2,
			SubmissionDate:    stamp,
			SubmissionUpdated: stamp.Add(time.Minute),
		}, nil)

		w := ts.do(http.MethodGet, path, "Basic other", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 2, body["attempts"])
		assert.Equal(t, otherID.String(), body["user_id"])
		assert.Equal(t, "2026-05-01T10:01:00.000Z", body["submission_updated"])
	})

	t.Run("NotSubmitted", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()
		ts.submissions.EXPECT().Get(gomock.Any(), assignmentID).Return(nil, errdefs.ErrNotFound)

		w := ts.do(http.MethodGet, path, "Basic other", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MalformedID", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodGet, "/assignments/not-a-uuid/submissions", "Basic other", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ts := newTestServer(t)
		ts.healthy()

		w := ts.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
