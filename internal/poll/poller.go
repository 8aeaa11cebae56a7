package poll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lthibault/jitterbug/v2"

	"github.com/shaiso/Resonance/internal/domain"
	"github.com/shaiso/Resonance/internal/telemetry"
)

// Значения по умолчанию.
const (
	defaultInterval = 30 * time.Second
	defaultTimeout  = 6 * time.Hour
)

// StatusFunc — один запрос статуса удалённой задачи.
type StatusFunc func(ctx context.Context) (domain.JobStatus, error)

// Waiter — блокирующий цикл опроса до терминального статуса.
//
// Первый опрос выполняется сразу, дальше — по тикеру с небольшим
// джиттером, чтобы параллельные клиенты не били в платформу синхронно.
type Waiter struct {
	// Interval — интервал между опросами. Default: 30s.
	Interval time.Duration

	// Timeout — общий wall-clock бюджет ожидания. Default: 6h.
	Timeout time.Duration

	// Stage — имя стадии для логов и метрик.
	Stage string

	// Retryable определяет, является ли ошибка опроса восстановимой.
	// Восстановимые ошибки повторяются с тем же интервалом в пределах
	// бюджета; остальные прерывают ожидание. Nil — ничего не повторять.
	Retryable func(error) bool

	// OnTransition вызывается на каждой смене наблюдаемого статуса.
	OnTransition func(from, to domain.JobStatus)

	// Logger — логгер цикла. Nil — глобальный.
	Logger *slog.Logger
}

// Wait опрашивает fn до терминального статуса.
//
// Возвращает:
//   - терминальный статус — задача завершена (как именно, решает вызывающий);
//   - ErrTimeout — бюджет исчерпан;
//   - ErrStatusRegression — платформа нарушила монотонность статусов;
//   - ошибку fn, если она не восстановима;
//   - ctx.Err() при отмене вызывающим. Отмена кооперативная и локальная:
//     удалённая задача продолжает выполняться на платформе.
func (w *Waiter) Wait(ctx context.Context, fn StatusFunc) (domain.JobStatus, error) {
	if fn == nil {
		return "", ErrNoStatusFunc
	}

	interval := w.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = telemetry.WithStage(logger, w.Stage)

	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 20})
	defer ticker.Stop()

	budget := time.NewTimer(timeout)
	defer budget.Stop()

	// lastRank = -1: статус ещё не наблюдался.
	lastRank := -1
	var lastStatus domain.JobStatus

	// Первый опрос сразу, не дожидаясь тика.
	for {
		status, err := w.attempt(ctx, fn, logger)
		switch {
		case err != nil && w.Retryable != nil && w.Retryable(err):
			telemetry.TransportRetries.Inc()
			logger.Warn("poll attempt failed, will retry", "error", err)

		case err != nil:
			return "", err

		default:
			if status.Rank() < lastRank {
				return "", fmt.Errorf("%w: observed %s after %s", ErrStatusRegression, status, lastStatus)
			}
			if status != lastStatus {
				logger.Info("status changed", "from", lastStatus.String(), "to", status.String())
				if w.OnTransition != nil {
					w.OnTransition(lastStatus, status)
				}
			}
			lastRank = status.Rank()
			lastStatus = status

			if status.IsTerminal() {
				return status, nil
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-budget.C:
			return "", fmt.Errorf("%w: after %s (last status: %s)", ErrTimeout, timeout, lastStatus)
		case <-ticker.C:
		}
	}
}

// attempt выполняет один опрос с учётом метрик.
func (w *Waiter) attempt(ctx context.Context, fn StatusFunc, logger *slog.Logger) (domain.JobStatus, error) {
	telemetry.PollAttempts.WithLabelValues(w.Stage).Inc()

	status, err := fn(ctx)
	if err != nil {
		return "", err
	}

	logger.Debug("polled status", "status", status.String())
	return status, nil
}
