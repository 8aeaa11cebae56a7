package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Resonance/internal/domain"
)

// sequence возвращает StatusFunc, отдающую статусы по очереди
// (последний повторяется).
func sequence(statuses ...domain.JobStatus) StatusFunc {
	i := 0
	return func(ctx context.Context) (domain.JobStatus, error) {
		s := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		return s, nil
	}
}

func TestWaiter_TerminalImmediately(t *testing.T) {
	w := &Waiter{Interval: time.Millisecond, Timeout: time.Second}

	status, err := w.Wait(context.Background(), sequence(domain.StatusFinished))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusFinished {
		t.Errorf("status = %s, want FINISHED", status)
	}
}

func TestWaiter_WaitsThroughLifecycle(t *testing.T) {
	var transitions []domain.JobStatus
	w := &Waiter{
		Interval: time.Millisecond,
		Timeout:  time.Second,
		OnTransition: func(from, to domain.JobStatus) {
			transitions = append(transitions, to)
		},
	}

	status, err := w.Wait(context.Background(),
		sequence(domain.StatusQueued, domain.StatusQueued, domain.StatusRunning, domain.StatusFinished))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusFinished {
		t.Errorf("status = %s, want FINISHED", status)
	}

	want := []domain.JobStatus{domain.StatusQueued, domain.StatusRunning, domain.StatusFinished}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestWaiter_Timeout(t *testing.T) {
	// Сценарий из свойства: interval=5s, timeout=30s, всегда RUNNING →
	// таймаут примерно после 6 опросов. Здесь масштаб 1:1000.
	polls := 0
	fn := func(ctx context.Context) (domain.JobStatus, error) {
		polls++
		return domain.StatusRunning, nil
	}

	w := &Waiter{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}
	_, err := w.Wait(context.Background(), fn)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	// Первый опрос сразу + ~5 по тикеру; допуск на джиттер и планировщик.
	if polls < 3 || polls > 10 {
		t.Errorf("polls = %d, want about 6", polls)
	}
}

func TestWaiter_NeverReturnsNonTerminal(t *testing.T) {
	w := &Waiter{Interval: time.Millisecond, Timeout: 10 * time.Millisecond}

	status, err := w.Wait(context.Background(), sequence(domain.StatusRunning))
	if err == nil {
		t.Fatalf("expected error, got status %s", status)
	}
	if status != "" {
		t.Errorf("non-terminal status leaked: %s", status)
	}
}

func TestWaiter_RetriesRetryableErrors(t *testing.T) {
	errNet := errors.New("connection reset")
	calls := 0
	fn := func(ctx context.Context) (domain.JobStatus, error) {
		calls++
		if calls < 3 {
			return "", errNet
		}
		return domain.StatusFinished, nil
	}

	w := &Waiter{
		Interval:  time.Millisecond,
		Timeout:   time.Second,
		Retryable: func(err error) bool { return errors.Is(err, errNet) },
	}

	status, err := w.Wait(context.Background(), fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusFinished {
		t.Errorf("status = %s, want FINISHED", status)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWaiter_FatalErrorAbortsImmediately(t *testing.T) {
	errAuth := errors.New("authentication failed")
	calls := 0
	fn := func(ctx context.Context) (domain.JobStatus, error) {
		calls++
		return "", errAuth
	}

	w := &Waiter{
		Interval:  time.Millisecond,
		Timeout:   time.Second,
		Retryable: func(err error) bool { return false },
	}

	_, err := w.Wait(context.Background(), fn)
	if !errors.Is(err, errAuth) {
		t.Fatalf("expected the fatal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("fatal error must not be retried, calls = %d", calls)
	}
}

func TestWaiter_StatusRegression(t *testing.T) {
	w := &Waiter{Interval: time.Millisecond, Timeout: time.Second}

	_, err := w.Wait(context.Background(),
		sequence(domain.StatusRunning, domain.StatusQueued))
	if !errors.Is(err, ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression, got %v", err)
	}
}

func TestWaiter_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(ctx context.Context) (domain.JobStatus, error) {
		cancel() // отмена после первого опроса
		return domain.StatusRunning, nil
	}

	w := &Waiter{Interval: time.Minute, Timeout: time.Hour}
	_, err := w.Wait(ctx, fn)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaiter_NilStatusFunc(t *testing.T) {
	w := &Waiter{}
	if _, err := w.Wait(context.Background(), nil); !errors.Is(err, ErrNoStatusFunc) {
		t.Errorf("expected ErrNoStatusFunc, got %v", err)
	}
}
