package resilience

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// CircuitState — состояние circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// String возвращает имя состояния для логов и метрик.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreaker реализует трёхфазный автомат closed → open → half-open.
// После maxFailures подряд неудач breaker открывается и пропускает вызовы
// только по истечении resetTimeout; в half-open допускается ровно один
// пробный вызов. Безопасен при конкурентном доступе.
type CircuitBreaker struct {
	mu sync.Mutex

	maxFailures  int
	resetTimeout time.Duration

	failures    int
	lastFailure time.Time
	state       CircuitState
	probing     bool

	logger       *log.Entry
	onTransition func(from, to CircuitState)
}

// NewCircuitBreaker создаёт breaker в закрытом состоянии.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, logger *log.Entry) *CircuitBreaker {
	if logger == nil {
		logger = log.New().WithField("component", "circuit-breaker")
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		logger:       logger,
	}
}

// OnTransition регистрирует хук на смену состояния (метрики).
func (cb *CircuitBreaker) OnTransition(fn func(from, to CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onTransition = fn
}

// Allow сообщает, можно ли выполнить вызов. В half-open пропускается только
// один probe; остальные вызовы уходят в fallback до результата пробы.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			cb.setState(CircuitHalfOpen)
			cb.probing = true
			return true
		}
		return false
	case CircuitHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return false
	}
}

// RecordSuccess фиксирует удачный вызов и закрывает breaker после пробы.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitHalfOpen {
		cb.setState(CircuitClosed)
	}
	cb.failures = 0
	cb.probing = false
}

// RecordFailure фиксирует неудачу; порог или неудачная проба открывают breaker.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()
	cb.probing = false

	if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
		cb.setState(CircuitOpen)
	}
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// setState вызывается только под cb.mu.
func (cb *CircuitBreaker) setState(next CircuitState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next

	cb.logger.WithFields(log.Fields{
		"from":     prev.String(),
		"to":       next.String(),
		"failures": cb.failures,
	}).Info("circuit breaker state changed")

	if cb.onTransition != nil {
		cb.onTransition(prev, next)
	}
}
