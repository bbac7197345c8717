package errors

import (
	"sync/atomic"
	"testing"
)

func TestWatchdogCountsFailures(t *testing.T) {
	w := NewWatchdog("", nil)
	defer w.Stop()

	for i := 0; i < 5; i++ {
		w.NoteFailure()
	}
	if got := atomic.LoadInt32(&w.failures); got != 5 {
		t.Fatalf("failures = %d, se esperaban 5", got)
	}
}

func TestWatchdogHandlePanicIncrements(t *testing.T) {
	w := NewWatchdog("", nil)
	defer w.Stop()

	w.HandlePanic("boom")
	if got := atomic.LoadInt32(&w.failures); got != 1 {
		t.Fatalf("failures = %d, se esperaba 1", got)
	}
}

func TestWatchdogStopIdempotent(t *testing.T) {
	w := NewWatchdog("", nil)
	w.Stop()
	w.Stop()
}

func TestRecoverMiddlewareSwallowsPanic(t *testing.T) {
	reached := false
	func() {
		defer RecoverMiddleware()()
		reached = true
		panic("explosión controlada")
	}()
	if !reached {
		t.Fatal("el cuerpo no llegó a ejecutarse")
	}
}
