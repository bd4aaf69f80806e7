package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different key should also work
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	key := "anthropic"

	// First call ok, consumes the only token
	if err := limiter.Wait(ctx, key); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow(key) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different key has its own budget
	if !limiter.Allow("openai") {
		t.Errorf("expected allow for other key")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default
	key := "slow-provider"

	limiter.SetRate(key, 0.1, 1) // very slow

	// First call passes (burst 1)
	if !limiter.Allow(key) {
		t.Errorf("first call should pass")
	}

	// Second call fails
	if limiter.Allow(key) {
		t.Errorf("second call should fail")
	}

	// Other key still fast
	if !limiter.Allow("fast-provider") {
		t.Errorf("other key should pass")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// Consume the burst token, then cancel while the next call would wait
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()

	if err := limiter.Wait(ctx, "anthropic"); err == nil {
		t.Error("expected error from cancelled wait")
	}
}
