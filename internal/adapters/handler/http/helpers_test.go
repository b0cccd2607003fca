package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/circle-leader-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

const testUser = "user-1"

// Wednesday 2025-03-12, noon at UTC-6.
var testClock = domain.FixedClock{At: time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)}

type testServer struct {
	router *gin.Engine
}

func setupServer(t *testing.T, digest *adapterHTTP.DigestHandler) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	leaderRepo := repository.NewInMemoryLeaderRepository()
	noteRepo := repository.NewInMemoryNoteRepository()
	todoRepo := repository.NewInMemoryTodoRepository()
	scoreRepo := repository.NewInMemoryScorecardRepository()

	trendCache := cache.NewTTLCache[domain.WeeklyTrends](time.Minute, testClock)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		LeaderHandler:    adapterHTTP.NewLeaderHandler(services.NewLeaderService(leaderRepo, noteRepo, testClock)),
		NoteHandler:      adapterHTTP.NewNoteHandler(services.NewNoteService(noteRepo, leaderRepo)),
		TodoHandler:      adapterHTTP.NewTodoHandler(services.NewTodoService(todoRepo, testClock)),
		ScorecardHandler: adapterHTTP.NewScorecardHandler(services.NewScorecardService(scoreRepo, leaderRepo, trendCache, testClock)),
		DigestHandler:    digest,
		StartTime:        time.Now(),
	})

	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createLeader(t *testing.T, name string) domain.CircleLeader {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/leaders", testUser, map[string]string{"name": name, "campus": "North"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.CircleLeader](t, w)
}
