package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

// TestRateLimiter_AllowWithinLimit は上限までの呼び出しがすべて許可されることを検証します。
func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Errorf("call %d should be allowed", i+1)
		}
	}
}

// TestRateLimiter_RejectOverLimit は上限を超えた呼び出しが拒否されることを検証します。
func TestRateLimiter_RejectOverLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, time.Minute)

	rl.Allow()
	rl.Allow()

	if rl.Allow() {
		t.Error("call over the limit should be rejected")
	}
	if rl.Allow() {
		t.Error("subsequent calls should stay rejected within the window")
	}
}

// TestRateLimiter_WindowReset はウィンドウ経過後にカウントがリセットされることを検証します。
func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 50*time.Millisecond)

	if !rl.Allow() {
		t.Fatal("first call should be allowed")
	}
	if rl.Allow() {
		t.Fatal("second call should be rejected")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow() {
		t.Error("call after the window should be allowed again")
	}
}

// TestRateLimiter_ConcurrentAccess は並行アクセス時に許可数が上限を超えないことを検証します。
func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	const limit = 10
	rl := NewRateLimiter(limit, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("expected exactly %d allowed calls, got %d", limit, allowed)
	}
}
