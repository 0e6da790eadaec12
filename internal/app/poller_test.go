package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingRefresher struct {
	calls chan struct{}
	err   error
}

func (c *countingRefresher) RefreshAll(context.Context) error {
	c.calls <- struct{}{}
	return c.err
}

func TestStartPoller_RefreshesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRefresher{calls: make(chan struct{}, 16)}

	StartPoller(ctx, r, 10*time.Millisecond, nil)

	for i := 0; i < 2; i++ {
		select {
		case <-r.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresh #%d did not happen", i+1)
		}
	}
	cancel()
	// drain anything already in flight, then expect silence
	time.Sleep(30 * time.Millisecond)
	for len(r.calls) > 0 {
		<-r.calls
	}
	select {
	case <-r.calls:
		t.Fatalf("refresh after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartPoller_DisabledForZeroInterval(t *testing.T) {
	r := &countingRefresher{calls: make(chan struct{}, 1)}
	StartPoller(context.Background(), r, 0, nil)
	select {
	case <-r.calls:
		t.Fatalf("poller ran with zero interval")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestStartPoller_BacksOffOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &countingRefresher{calls: make(chan struct{}, 16), err: errors.New("offline")}

	start := time.Now()
	StartPoller(ctx, r, 20*time.Millisecond, nil)
	for i := 0; i < 2; i++ {
		select {
		case <-r.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresh #%d did not happen", i+1)
		}
	}
	// first wait 20ms, then 40ms after the first failure
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("second refresh after %v, want backoff of at least 60ms", elapsed)
	}
}
