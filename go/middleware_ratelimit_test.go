package storefrontserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScripter counts admissions per key and ignores the window.
type fakeScripter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
	keys   []string
}

func newFakeScripter() *fakeScripter {
	return &fakeScripter{counts: map[string]int{}}
}

func (f *fakeScripter) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *goredis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewCmdResult(nil, f.err)
	}
	key := keys[0]
	f.keys = append(f.keys, key)
	limit := args[2].(int)
	if f.counts[key] >= limit {
		return goredis.NewCmdResult(int64(-1), nil)
	}
	f.counts[key]++
	return goredis.NewCmdResult(int64(f.counts[key]), nil)
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *goredis.Cmd {
	return f.EvalSha(ctx, "", keys, args...)
}

func (f *fakeScripter) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd {
	return f.Eval(ctx, script, keys, args...)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *goredis.Cmd {
	return f.EvalSha(ctx, sha1, keys, args...)
}

func (f *fakeScripter) ScriptExists(context.Context, ...string) *goredis.BoolSliceCmd {
	return goredis.NewBoolSliceResult([]bool{true}, nil)
}

func (f *fakeScripter) ScriptLoad(context.Context, string) *goredis.StringCmd {
	return goredis.NewStringResult("", nil)
}

func withCheckoutLimit(rdb goredis.Scripter, limit int) func(*ApiHandleFunctions) {
	return func(h *ApiHandleFunctions) {
		h.CheckoutLimit = RedisRateLimit(rdb, limit, time.Minute)
	}
}

func TestRedisRateLimit_BlocksAfterLimit(t *testing.T) {
	scripter := newFakeScripter()
	s := newTestServer(t, withCheckoutLimit(scripter, 2))
	productID := s.seedProduct(t, 10)

	for i := 0; i < 2; i++ {
		rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
	require.Equal(t, http.StatusTooManyRequests, rec.Code, rec.Body.String())
	assert.Equal(t, "RATE_LIMITED", decode(t, rec)["code"])
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, 8, s.stockOf(t, productID))
}

func TestRedisRateLimit_KeysBySignedInUser(t *testing.T) {
	scripter := newFakeScripter()
	s := newTestServer(t, withCheckoutLimit(scripter, 1))
	productID := s.seedProduct(t, 10)
	token := s.register(t, "Ada Lovelace", "ada@example.com")

	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", token: token, body: checkoutBody(productID, 1, "10.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, scripter.keys, 2)
	assert.Contains(t, scripter.keys[0], "rate_limit:checkout:user:")
	assert.Contains(t, scripter.keys[1], "rate_limit:checkout:ip:")
}

func TestRedisRateLimit_FailsOpen(t *testing.T) {
	scripter := newFakeScripter()
	scripter.err = errors.New("connection refused")
	s := newTestServer(t, withCheckoutLimit(scripter, 1))
	productID := s.seedProduct(t, 10)

	for i := 0; i < 3; i++ {
		rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	unlimited := newTestServer(t, withCheckoutLimit(nil, 1))
	productID = unlimited.seedProduct(t, 10)
	rec := unlimited.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
