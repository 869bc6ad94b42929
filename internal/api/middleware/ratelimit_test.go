package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

func newLimited(t *testing.T, limit int, failOpen bool) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, limit, time.Minute, "test", failOpen, logger.Nop())
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
	return rl.Middleware(ok), mr
}

func post(h http.Handler, userID int64) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
	req = req.WithContext(WithActor(req.Context(), domain.Actor{UserID: userID, Role: domain.RoleCustomer}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	h, mr := newLimited(t, 2, false)

	assert.Equal(t, http.StatusCreated, post(h, 1))
	assert.Equal(t, http.StatusCreated, post(h, 1))
	assert.Equal(t, http.StatusTooManyRequests, post(h, 1))

	// у другого пользователя свой счетчик
	assert.Equal(t, http.StatusCreated, post(h, 2))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusCreated, post(h, 1))
}

func TestRateLimiter_RedisDown(t *testing.T) {
	h, mr := newLimited(t, 2, true)
	mr.Close()
	assert.Equal(t, http.StatusCreated, post(h, 1), "fail-open lets the request through")

	h, mr = newLimited(t, 2, false)
	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, post(h, 1))
}

func TestClientKey_FallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "ip:10.0.0.7", clientKey(req))
}
