package goroutine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"calmora/internal/shared/logger"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan struct{})
	SafeGo(log, "boom", func() {
		defer close(done)
		panic("kaboom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine never ran")
	}
}

func TestSafeGo_RunsFunction(t *testing.T) {
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

	result := make(chan int, 1)
	SafeGo(log, "work", func() { result <- 42 })

	select {
	case v := <-result:
		if v != 42 {
			t.Fatalf("got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("goroutine never ran")
	}
}
