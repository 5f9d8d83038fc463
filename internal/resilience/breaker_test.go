package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if !cb.Allow() {
			t.Fatalf("breaker must allow call %d while closed", i+1)
		}
		cb.RecordFailure()
	}

	if cb.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}
	if cb.Allow() {
		t.Fatal("open breaker must reject calls within cool-down")
	}
}

func TestCircuitBreaker_HalfOpenSingleProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, nil)

	cb.Allow()
	cb.RecordFailure()
	if cb.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	time.Sleep(15 * time.Millisecond)

	// После cool-down пропускается ровно одна проба.
	if !cb.Allow() {
		t.Fatal("expected probe call to be allowed after cool-down")
	}
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open state, got %s", cb.State())
	}
	if cb.Allow() {
		t.Fatal("second call must be rejected while probe is in flight")
	}

	cb.RecordSuccess()
	if cb.State() != CircuitClosed {
		t.Fatalf("expected closed state after successful probe, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Fatal("closed breaker must allow calls")
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 5*time.Millisecond, nil)

	cb.Allow()
	cb.RecordFailure()
	time.Sleep(10 * time.Millisecond)

	if !cb.Allow() {
		t.Fatal("expected probe call to be allowed")
	}
	cb.RecordFailure()

	if cb.State() != CircuitOpen {
		t.Fatalf("expected open state after failed probe, got %s", cb.State())
	}
	if cb.Allow() {
		t.Fatal("breaker must stay open after failed probe")
	}
}

func TestCircuitBreaker_TransitionHook(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute, nil)

	var transitions []CircuitState
	cb.OnTransition(func(_, to CircuitState) {
		transitions = append(transitions, to)
	})

	cb.Allow()
	cb.RecordFailure()

	if len(transitions) != 1 || transitions[0] != CircuitOpen {
		t.Fatalf("expected single transition to open, got %v", transitions)
	}
}
