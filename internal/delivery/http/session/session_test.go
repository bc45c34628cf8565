package http_session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws_session "github.com/pulsecheck/core/internal/delivery/ws/session"
	usecase_session "github.com/pulsecheck/core/internal/usecase/session"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	uc := usecase_session.New(ws_session.NewHub())
	router := gin.New()
	New(uc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateSession(t *testing.T) {
	router := newTestRouter()

	t.Run("mints a six digit session code", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{"username":"bob"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CreateResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.SessionID, 6)
		for _, c := range resp.SessionID {
			assert.True(t, c >= '0' && c <= '9')
		}
	})

	t.Run("rejects a missing username", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a blank username", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{"username":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an oversized username", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{"username":"a-username-longer-than-twenty"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJoinSession(t *testing.T) {
	router := newTestRouter()

	t.Run("accepts any session id without checking existence", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/join", `{"sessionId":"123456","username":"alice"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp JoinResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("rejects a missing session id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/join", `{"username":"alice"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing username", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/join", `{"sessionId":"123456"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
