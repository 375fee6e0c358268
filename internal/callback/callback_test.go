package callback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testConfig() Config {
	return Config{Host: "127.0.0.1", Port: 0, Path: "/authorized"}
}

func newClient() *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
}

// get issues a request in the background so Wait can run on the test goroutine.
func get(t *testing.T, client *http.Client, url string) <-chan int {
	t.Helper()
	status := make(chan int, 1)
	go func() {
		resp, err := client.Get(url)
		if err != nil {
			status <- -1
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()
	return status
}

func TestWaitReturnsHandlerResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	s := New(testConfig(), func(_ context.Context, code string) (string, error) {
		calls.Add(1)
		return "token-for-" + code, nil
	})
	require.NoError(t, s.Listen())
	assert.False(t, s.Done())

	client := newClient()
	status := get(t, client, s.RedirectURL()+"?code=abc&scope=read")

	got, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-for-abc", got)
	assert.True(t, s.Done())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusOK, <-status)
}

func TestMissingCodeIsProtocolFault(t *testing.T) {
	defer goleak.VerifyNone(t)

	called := false
	s := New(testConfig(), func(context.Context, string) (int, error) {
		called = true
		return 1, nil
	})
	require.NoError(t, s.Listen())

	status := get(t, newClient(), s.RedirectURL()+"?state=hrzones")

	_, err := s.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrProtocolFault)
	assert.False(t, called)
	assert.True(t, s.Done())
	assert.Equal(t, http.StatusBadRequest, <-status)
}

func TestProviderErrorIsProtocolFault(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(testConfig(), func(context.Context, string) (int, error) { return 1, nil })
	require.NoError(t, s.Listen())

	status := get(t, newClient(), s.RedirectURL()+"?error=access_denied")

	_, err := s.Wait(context.Background())
	assert.ErrorIs(t, err, contract.ErrProtocolFault)
	assert.Contains(t, err.Error(), "access_denied")
	assert.Equal(t, http.StatusBadRequest, <-status)
}

func TestHandlerErrorPropagates(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(testConfig(), func(context.Context, string) (int, error) {
		return 0, fmt.Errorf("list failed: %w", contract.ErrContractViolation)
	})
	require.NoError(t, s.Listen())

	status := get(t, newClient(), s.RedirectURL()+"?code=abc")

	_, err := s.Wait(context.Background())
	assert.ErrorIs(t, err, contract.ErrContractViolation)
	assert.Equal(t, http.StatusInternalServerError, <-status)
}

func TestOtherPathsDoNotConsume(t *testing.T) {
	s := New(testConfig(), func(context.Context, string) (int, error) { return 7, nil })

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, s.Done())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/authorized?code=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, s.Done())
}

func TestSecondRequestDoesNotOverwrite(t *testing.T) {
	s := New(testConfig(), func(_ context.Context, code string) (string, error) {
		return code, nil
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authorized?code=first", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.Done())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authorized?code=second", nil))
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authorized", nil))
	assert.Equal(t, http.StatusGone, rec.Code, "a late malformed request must not replace the result")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "first", s.value)
	assert.NoError(t, s.err)
}

func TestConcurrentRedirectsHandledOnce(t *testing.T) {
	var calls atomic.Int32
	s := New(testConfig(), func(_ context.Context, code string) (string, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return code, nil
	})

	const n = 16
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/authorized?code=c%d", i), nil))
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	ok, gone := 0, 0
	winner := ""
	for i, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
			winner = fmt.Sprintf("c%d", i)
		case http.StatusGone:
			gone++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, gone)
	assert.Equal(t, winner, s.value)
}

func TestRequestDuringHandlingGetsGone(t *testing.T) {
	defer goleak.VerifyNone(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	s := New(testConfig(), func(_ context.Context, code string) (string, error) {
		close(entered)
		<-release
		return code, nil
	})
	require.NoError(t, s.Listen())

	client := newClient()
	first := get(t, client, s.RedirectURL()+"?code=first")

	result := make(chan string, 1)
	go func() {
		v, _ := s.Wait(context.Background())
		result <- v
	}()

	<-entered
	second := get(t, client, s.RedirectURL()+"?code=second")
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, "first", <-result)
	assert.Equal(t, http.StatusOK, <-first)
	assert.Equal(t, http.StatusGone, <-second)
}

func TestWaitTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	s := New(cfg, func(context.Context, string) (int, error) { return 1, nil })

	start := time.Now()
	_, err := s.Wait(context.Background())
	assert.ErrorIs(t, err, contract.ErrCallbackTimeout)
	assert.False(t, s.Done())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTimeoutStopsAtAcceptedRedirect(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.Timeout = 150 * time.Millisecond
	s := New(cfg, func(ctx context.Context, code string) (string, error) {
		select {
		case <-time.After(3 * cfg.Timeout):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		return "fetched-" + code, nil
	})
	require.NoError(t, s.Listen())

	client := newClient()
	status := get(t, client, s.RedirectURL()+"?code=abc")

	got, err := s.Wait(context.Background())
	require.NoError(t, err, "work after an accepted redirect is not bound by the timeout")
	assert.Equal(t, "fetched-abc", got)
	assert.Equal(t, http.StatusOK, <-status)
}

func TestRedirectAfterTimeoutIsRejected(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	s := New(cfg, func(context.Context, string) (int, error) { return 1, nil })

	_, err := s.Wait(context.Background())
	require.ErrorIs(t, err, contract.ErrCallbackTimeout)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authorized?code=late", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, s.Done())
}

func TestWaitCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(testConfig(), func(context.Context, string) (int, error) { return 1, nil })
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := s.Wait(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotErrorIs(t, err, contract.ErrCallbackTimeout)
}

func TestListenRejectsNonLoopback(t *testing.T) {
	s := New(Config{Host: "0.0.0.0", Path: "/authorized"}, func(context.Context, string) (int, error) { return 1, nil })
	err := s.Listen()
	assert.Error(t, err)
	assert.Nil(t, s.Addr())
}

func TestRedirectURLUsesBoundPort(t *testing.T) {
	s := New(Config{Host: "localhost", Port: 0, Path: "/authorized"}, func(context.Context, string) (int, error) { return 1, nil })
	assert.Equal(t, "http://localhost:0/authorized", s.RedirectURL())

	require.NoError(t, s.Listen())
	defer func() { _ = s.Close() }()
	assert.NotContains(t, s.RedirectURL(), ":0/")
	assert.Contains(t, s.RedirectURL(), "http://localhost:")
}
