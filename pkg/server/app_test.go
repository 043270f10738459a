package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForecastAI/pkg/config"
	xhttp "ForecastAI/pkg/http"
)

type fakeHub struct{ closed bool }

func (h *fakeHub) Close() { h.closed = true }

type fakeDrainer struct {
	block bool
}

func (d fakeDrainer) Drain(ctx context.Context) error {
	if d.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func testConfig(shutdown time.Duration) *config.Config {
	cfg, _ := config.Default()
	cfg.Server.ShutdownTimeout = shutdown
	return cfg
}

func TestShutdown(t *testing.T) {
	hub := &fakeHub{}
	app := New(testConfig(time.Second), xhttp.NewServer(nil), hub, fakeDrainer{}, nil)

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !hub.closed {
		t.Fatalf("hub must be closed")
	}
}

func TestShutdownTimesOutOnStuckWork(t *testing.T) {
	app := New(testConfig(20*time.Millisecond), xhttp.NewServer(nil), &fakeHub{}, fakeDrainer{block: true}, nil)

	err := app.Shutdown(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
