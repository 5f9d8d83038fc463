package resilience

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Call — примарный удалённый вызов, который может завершиться ошибкой.
type Call[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Fallback — чистая локальная подстановка; по контракту никогда не падает.
type Fallback[Req, Resp any] func(req Req) Resp

// Config — настройки политики вокруг одного удалённого вызова.
type Config struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	CallTimeout   time.Duration

	FailureThreshold int
	CoolDown         time.Duration

	RateLimit       int
	RateLimitWindow time.Duration
}

// DefaultConfig возвращает консервативные значения по умолчанию.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:      3,
		InitialDelay:     100 * time.Millisecond,
		MaxDelay:         5 * time.Second,
		BackoffFactor:    2.0,
		CallTimeout:      5 * time.Second,
		FailureThreshold: 5,
		CoolDown:         30 * time.Second,
		RateLimit:        0, // без ограничения
		RateLimitWindow:  time.Second,
	}
}

// Причины переключения на fallback (для логов и метрик).
const (
	ReasonRateLimited      = "rate_limited"
	ReasonCircuitOpen      = "circuit_open"
	ReasonRetriesExhausted = "retries_exhausted"
)

// Wrapper оборачивает примарный вызов политиками rate limiter → retry →
// circuit breaker и подставляет fallback, когда политика отклоняет вызов или
// попытки исчерпаны. Транспортная ошибка никогда не доходит до вызывающего.
type Wrapper[Req, Resp any] struct {
	name     string
	cfg      Config
	limiter  *RateLimiter
	breaker  *CircuitBreaker
	primary  Call[Req, Resp]
	fallback Fallback[Req, Resp]
	logger   *log.Entry

	onFallback func(name, reason string)
}

// NewWrapper собирает обёртку вокруг одного удалённого вызова.
func NewWrapper[Req, Resp any](
	name string,
	cfg Config,
	primary Call[Req, Resp],
	fallback Fallback[Req, Resp],
	logger *log.Entry,
) *Wrapper[Req, Resp] {
	if logger == nil {
		logger = log.New().WithField("component", "resilience")
	}
	logger = logger.WithField("call", name)

	return &Wrapper[Req, Resp]{
		name:     name,
		cfg:      cfg,
		limiter:  NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow),
		breaker:  NewCircuitBreaker(cfg.FailureThreshold, cfg.CoolDown, logger),
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// OnFallback регистрирует хук подстановки fallback (метрики).
func (w *Wrapper[Req, Resp]) OnFallback(fn func(name, reason string)) *Wrapper[Req, Resp] {
	w.onFallback = fn
	return w
}

// OnBreakerTransition регистрирует хук смены состояния breaker.
func (w *Wrapper[Req, Resp]) OnBreakerTransition(fn func(name string, from, to CircuitState)) *Wrapper[Req, Resp] {
	w.breaker.OnTransition(func(from, to CircuitState) {
		fn(w.name, from, to)
	})
	return w
}

// Breaker отдаёт внутренний breaker (нужен health-чекерам и тестам).
func (w *Wrapper[Req, Resp]) Breaker() *CircuitBreaker {
	return w.breaker
}

// Do выполняет вызов под политиками. Второй результат — degraded: true, если
// ответ получен из fallback, а не от примарного вызова.
func (w *Wrapper[Req, Resp]) Do(ctx context.Context, req Req) (Resp, bool) {
	if !w.limiter.Allow() {
		w.logger.Warn("rate limit exceeded, serving fallback")
		w.reportFallback(ReasonRateLimited)
		return w.fallback(req), true
	}

	delay := w.cfg.InitialDelay
	var lastErr error

retry:
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		if !w.breaker.Allow() {
			w.logger.Warn("circuit breaker is open, serving fallback")
			w.reportFallback(ReasonCircuitOpen)
			return w.fallback(req), true
		}

		resp, err := w.invoke(ctx, req)
		if err == nil {
			w.breaker.RecordSuccess()
			return resp, false
		}
		w.breaker.RecordFailure()
		lastErr = err

		if attempt < w.cfg.MaxAttempts {
			w.logger.WithError(err).WithFields(log.Fields{
				"attempt": attempt,
				"delay":   delay,
			}).Warn("call failed, retrying")

			if !sleepContext(ctx, delay) {
				w.logger.WithError(ctx.Err()).Warn("context cancelled during backoff, serving fallback")
				break retry
			}
			delay = time.Duration(float64(delay) * w.cfg.BackoffFactor)
			if delay > w.cfg.MaxDelay {
				delay = w.cfg.MaxDelay
			}
		}
	}

	w.logger.WithError(lastErr).WithField("max_attempts", w.cfg.MaxAttempts).
		Error("call failed after all retry attempts, serving fallback")
	w.reportFallback(ReasonRetriesExhausted)
	return w.fallback(req), true
}

// sleepContext ждёт d или отмены контекста; false — контекст отменён.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (w *Wrapper[Req, Resp]) invoke(ctx context.Context, req Req) (Resp, error) {
	if w.cfg.CallTimeout > 0 {
		callCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
		defer cancel()
		return w.primary(callCtx, req)
	}
	return w.primary(ctx, req)
}

func (w *Wrapper[Req, Resp]) reportFallback(reason string) {
	if w.onFallback != nil {
		w.onFallback(w.name, reason)
	}
}
