package crontab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeAbandoner struct {
	maxIdle time.Duration
	n       int64
	err     error
}

func (f *fakeAbandoner) AbandonStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	f.maxIdle = maxIdle
	return f.n, f.err
}

func TestSweepCarts(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeAbandoner
		want int64
	}{
		{name: "reports abandoned carts", fake: &fakeAbandoner{n: 3}, want: 3},
		{name: "store failure", fake: &fakeAbandoner{err: errors.New("db down")}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCrontab(tt.fake, Config{MaxIdle: 24 * time.Hour}, zerolog.Nop())
			if got := c.SweepCarts(context.Background()); got != tt.want {
				t.Errorf("SweepCarts() = %d, want %d", got, tt.want)
			}
			if tt.fake.maxIdle != 24*time.Hour {
				t.Errorf("maxIdle = %v, want 24h", tt.fake.maxIdle)
			}
		})
	}
}

func TestRun_StopsWithContext(t *testing.T) {
	c := NewCrontab(&fakeAbandoner{}, Config{MaxIdle: time.Hour}, zerolog.Nop())
	if c.cfg.Schedule != DefaultSweepSchedule {
		t.Errorf("schedule = %q, want default", c.cfg.Schedule)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRun_RejectsBadSchedule(t *testing.T) {
	c := NewCrontab(&fakeAbandoner{}, Config{Schedule: "not a schedule", MaxIdle: time.Hour}, zerolog.Nop())
	if err := c.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want schedule error")
	}
}
