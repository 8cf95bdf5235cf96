package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Wait(t *testing.T) {
	l := New(Config{
		RPS:   10, // 10 requests per second = 100ms interval
		Burst: 1,
	})
	ctx := context.Background()

	// Consume initial token
	start := time.Now()
	if err := l.Wait(ctx, "https://steamcommunity.com/comment/Profile/render/1/-1/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Logf("warning: first wait took %v", time.Since(start))
	}

	// Next one should wait ~100ms
	start = time.Now()
	if err := l.Wait(ctx, "https://steamcommunity.com/comment/Profile/render/2/-1/"); err != nil {
		t.Fatal(err)
	}
	if dur := time.Since(start); dur < 80*time.Millisecond {
		t.Errorf("expected wait ~100ms, got %v", dur)
	}
}

func TestLimiter_DifferentHosts(t *testing.T) {
	l := New(Config{
		RPS:   1, // 1 RPS = 1s interval
		Burst: 1,
	})
	ctx := context.Background()

	if err := l.Wait(ctx, "https://steamcommunity.com/a"); err != nil {
		t.Fatal(err)
	}

	// The API host should not be blocked by the community host.
	start := time.Now()
	if err := l.Wait(ctx, "https://api.steampowered.com/b"); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Errorf("api host blocked unexpectedly")
	}
}

func TestLimiter_DisabledByDefault(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 50; i++ {
		if err := l.Wait(ctx, "https://steamcommunity.com"); err != nil {
			t.Fatal(err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("unlimited limiter delayed requests: %v", time.Since(start))
	}
}

func TestLimiter_ContextCanceled(t *testing.T) {
	l := New(Config{RPS: 0.1, Burst: 1})
	if err := l.Wait(context.Background(), "https://steamcommunity.com"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx, "https://steamcommunity.com"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
