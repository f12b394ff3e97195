package shutdown

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestShutdownWithTimeout(t *testing.T) {
	shutdown := NewShutdown(testLogger())

	quickCompleted := false
	slowCompleted := false
	timeoutDetectorCompleted := false

	shutdown.HookShutdownCallback("quick", func() {
		time.Sleep(50 * time.Millisecond)
		quickCompleted = true
	}, 1*time.Second)

	shutdown.HookShutdownCallback("slow", func() {
		time.Sleep(2 * time.Second)
		slowCompleted = true
	}, 100*time.Millisecond)

	shutdown.HookShutdownCallback("timeout-detector", func() {
		time.Sleep(200 * time.Millisecond)
		timeoutDetectorCompleted = true
	}, 50*time.Millisecond)

	shutdown.ShutdownNow()

	if !quickCompleted {
		t.Error("quick callback should have completed")
	}
	if slowCompleted {
		t.Error("slow callback should not have completed before timeout")
	}
	if timeoutDetectorCompleted {
		t.Error("timeout-detector callback should not have completed before timeout")
	}
}

func TestShutdownWithoutTimeout(t *testing.T) {
	shutdown := NewShutdown(testLogger())

	completed := false
	shutdown.HookShutdownCallback("no-timeout", func() {
		time.Sleep(100 * time.Millisecond)
		completed = true
	}, 0)

	shutdown.ShutdownNow()

	if !completed {
		t.Error("callback without timeout should have completed")
	}
}
