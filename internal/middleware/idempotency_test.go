package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.Use(middleware.Idempotency(rdb))
	r.POST("/payroll-runs", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r, mock
}

func TestIdempotencyPassesThroughWithoutKey(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payroll-runs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIdempotencyAcquiresLockOnFirstRequest(t *testing.T) {
	r, mock := setupRouter(t)

	cacheKey := "idemp:/payroll-runs:key-1"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payroll-runs", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	r, mock := setupRouter(t)

	cacheKey := "idemp:/payroll-runs:key-2"
	mock.ExpectGet(cacheKey).SetVal(`{"run_number":"RUN-0001"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payroll-runs", nil)
	req.Header.Set("Idempotency-Key", "key-2")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RUN-0001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	r, mock := setupRouter(t)

	cacheKey := "idemp:/payroll-runs:key-3"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payroll-runs", nil)
	req.Header.Set("Idempotency-Key", "key-3")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESSING")
	assert.NoError(t, mock.ExpectationsWereMet())
}
