package echoapi_test

import (
	"bytes"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/sauti/apps/api/echo"
	"github.com/trezcool/sauti/core"
	"github.com/trezcool/sauti/core/feedback"
	"github.com/trezcool/sauti/testutil"
)

func Test_home(t *testing.T) {
	app, _ := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Sauti API!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func Test_feedbackApi_query(t *testing.T) {
	app, repo := setup(t)
	empty := marshallList(t)

	runHTTPTests(t, app, []httpTest{
		{name: "empty store", path: "/feedback", wantData: empty},
		{name: "empty store (trailing slash)", path: "/feedback/", wantData: empty},
	})

	fb1 := testutil.CreateFeedback(t, repo, "Smith", "Great", "", "2024-08-15T00:00:00Z")
	fb2 := testutil.CreateFeedback(t, repo, "Mr Jones", "Kind", "Louder", "2024-10-15T00:00:00Z")
	fb3 := testutil.CreateFeedback(t, repo, "Smith", "Fun", "Homework", "2024-12-15T00:00:00Z")

	runHTTPTests(t, app, []httpTest{
		{name: "all", path: "/feedback", wantData: marshallList(t, fb1, fb2, fb3)},
		{name: "?teacher=Smith", path: "/feedback?teacher=Smith", wantData: marshallList(t, fb1, fb3)},
		{name: "?teacher=unknown", path: "/feedback?teacher=Brown", wantData: empty},
		{name: "teacher route", path: "/feedback/teacher/Smith", wantData: marshallList(t, fb1, fb3)},
		{name: "teacher route (escaped)", path: "/feedback/teacher/Mr%20Jones", wantData: marshallList(t, fb2)},
		{name: "teacher route (case sensitive)", path: "/feedback/teacher/smith", wantData: empty},
		{name: "teachers", path: "/feedback/teachers", wantData: marshallList(t, "Mr Jones", "Smith")},
	})
}

func Test_feedbackApi_create(t *testing.T) {
	app, repo := setup(t)

	now := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	feedback.NowFunc = func() time.Time { return now }
	defer func() { feedback.NowFunc = time.Now }()
	nowMs := now.UnixNano() / int64(time.Millisecond)

	runHTTPTests(t, app, []httpTest{
		{
			name: "valid", method: http.MethodPost, path: "/feedback",
			body: []byte(`{"teacher": " Smith ", "positive": "Great", "constructive": "", "timestamp": "2024-08-15T00:00:00Z"}`),
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, feedback.Feedback{
				ID: nowMs, Teacher: "Smith", Positive: "Great", Timestamp: "2024-08-15T00:00:00Z",
			}),
		},
		{
			name: "no timestamp", method: http.MethodPost, path: "/feedback",
			body:     []byte(`{"teacher": "Jones", "positive": "Kind", "constructive": "Speak up"}`),
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, feedback.Feedback{
				ID: nowMs + 1, Teacher: "Jones", Positive: "Kind", Constructive: "Speak up", Timestamp: "2024-09-02T08:00:00.000Z",
			}),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/feedback",
			body:     []byte(`{"constructive": "meh"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"teacher":  "this field is required",
				"positive": "this field is required",
			}),
		},
		{
			name: "blank positive", method: http.MethodPost, path: "/feedback",
			body:     []byte(`{"teacher": "Smith", "positive": "   "}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"positive": "this field is required"}),
		},
		{
			name: "empty body", method: http.MethodPost, path: "/feedback",
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"teacher":  "this field is required",
				"positive": "this field is required",
			}),
		},
	})

	t.Run("malformed body", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/feedback", []byte(`{"teacher": `))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	all, err := repo.QueryAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func Test_feedbackApi_destroy(t *testing.T) {
	app, repo := setup(t)
	fb1 := testutil.CreateFeedback(t, repo, "Smith", "Great", "", "2024-08-15T00:00:00Z")
	fb2 := testutil.CreateFeedback(t, repo, "Jones", "Kind", "", "2024-08-15T00:00:00Z")
	deleted := marshallObj(t, MessageResponse{Message: "Deleted"})

	runHTTPTests(t, app, []httpTest{
		{name: "existing", method: http.MethodDelete, path: "/feedback/" + strconv.FormatInt(fb1.ID, 10), wantData: deleted},
		{name: "already deleted", method: http.MethodDelete, path: "/feedback/" + strconv.FormatInt(fb1.ID, 10), wantData: deleted},
		{name: "malformed id", method: http.MethodDelete, path: "/feedback/abc", wantData: deleted},
		{name: "remaining", path: "/feedback", wantData: marshallList(t, fb2)},
		{
			name: "clear", method: http.MethodDelete, path: "/feedback",
			wantData: marshallObj(t, MessageResponse{Message: "All feedback cleared"}),
		},
		{name: "cleared", path: "/feedback", wantData: marshallList(t)},
	})
}

func Test_feedbackApi_analytics(t *testing.T) {
	app, repo := setup(t)

	runHTTPTests(t, app, []httpTest{
		{
			name: "empty store", path: "/feedback/analytics",
			wantData: []byte(`{"teachers": [], "analytics": {}, "totalFeedback": 0}`),
		},
	})

	testutil.CreateFeedback(t, repo, "Smith", "Great", "", "2024-08-15T00:00:00Z")
	testutil.CreateFeedback(t, repo, "Smith", "Fun", "More homework", "2024-09-10T00:00:00Z")
	testutil.CreateFeedback(t, repo, "Smith", "Nice", "", "Invalid Date")

	zero := func(period string) string {
		return `{"period": "` + period + `", "total": 0, "positiveOnly": 0, "withConstructive": 0, "ratio": 0}`
	}
	runHTTPTests(t, app, []httpTest{
		{
			name: "with records", path: "/feedback/analytics",
			wantData: []byte(`{
				"teachers": ["Smith"],
				"analytics": {
					"Smith": [
						{"period": "Aug-Sep", "total": 2, "positiveOnly": 1, "withConstructive": 1, "ratio": 50},
						` + zero("Oct-Nov") + `,
						` + zero("Dec-Jan") + `,
						` + zero("Feb-Mar") + `,
						` + zero("Apr-May") + `,
						` + zero("Jun-Jul") + `
					]
				},
				"totalFeedback": 3
			}`),
		},
		{
			name: "teacher stats", path: "/feedback/teacher/Smith/stats",
			wantData: marshallObj(t, feedback.TeacherStats{Teacher: "Smith", Total: 3, PositiveOnly: 2, WithConstructive: 1, Ratio: 67}),
		},
		{
			name: "teacher stats (unknown)", path: "/feedback/teacher/Brown/stats",
			wantData: marshallObj(t, feedback.TeacherStats{Teacher: "Brown"}),
		},
	})
}

func Test_feedbackApi_rateLimit(t *testing.T) {
	conf := newTestConf()
	conf.Server.SubmitRate = 0.001
	conf.Server.SubmitBurst = 2
	repo := testRepo(t)
	app := newTestServer(t, conf, repo, nil)

	body := []byte(`{"teacher": "Smith", "positive": "Great"}`)
	for i := 0; i < 2; i++ {
		req, rec := newRequest(http.MethodPost, "/feedback", body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req, rec := newRequest(http.MethodPost, "/feedback", body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusTooManyRequests,
		wantData: marshallObj(t, httpErr{Error: "too many requests, please slow down"}),
	}, rec)

	// another client still gets through
	req, rec = newRequest(http.MethodPost, "/feedback", body)
	req.RemoteAddr = "203.0.113.7:4242"
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// reads are never limited
	req, rec = newRequest(http.MethodGet, "/feedback")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_cors(t *testing.T) {
	conf := newTestConf()
	conf.Server.AllowedOrigins = []string{"http://school.test"}
	app := newTestServer(t, conf, testRepo(t), nil)

	req, rec := newRequest(http.MethodGet, "/feedback")
	req.Header.Set("Origin", "http://school.test")
	app.ServeHTTP(rec, req)
	assert.Equal(t, "http://school.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req, rec = newRequest(http.MethodGet, "/feedback")
	req.Header.Set("Origin", "http://evil.test")
	app.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type failingRepo struct {
	feedback.Repository
	err error
}

func (r failingRepo) QueryAll() ([]feedback.Feedback, error) { return nil, r.err }

func Test_serverErrors(t *testing.T) {
	var logs bytes.Buffer
	app := newTestServer(t, newTestConf(), failingRepo{err: errors.New("disk on fire")}, &logs)

	runHTTPTests(t, app, []httpTest{
		{
			name: "internal error", path: "/feedback/analytics",
			wantCode: http.StatusInternalServerError,
			wantData: marshallObj(t, httpErr{Error: "Internal Server Error"}),
		},
		{
			name: "not found", path: "/nope",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "Not Found"}),
		},
	})
	assert.Contains(t, logs.String(), "disk on fire")
	assert.Contains(t, logs.String(), "GET /feedback/analytics")

	select {
	case sig := <-app.ShutdownSignal():
		t.Fatalf("unexpected shutdown signal %v", sig)
	default:
	}
}

func Test_serverErrors_shutdown(t *testing.T) {
	app := newTestServer(t, newTestConf(), failingRepo{err: core.NewShutdownError("store corrupted")}, nil)

	req, rec := newRequest(http.MethodGet, "/feedback")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	select {
	case <-app.ShutdownSignal():
	case <-time.After(time.Second):
		t.Fatal("shutdown was not signaled")
	}
}

func Test_debugErrors(t *testing.T) {
	conf := newTestConf()
	conf.Debug = true
	app := newTestServer(t, conf, failingRepo{err: errors.New("disk on fire")}, nil)

	req, rec := newRequest(http.MethodGet, "/feedback")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "querying feedback: disk on fire")
}
