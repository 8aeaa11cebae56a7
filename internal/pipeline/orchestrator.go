package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Resonance/internal/casefile"
	"github.com/shaiso/Resonance/internal/checkpoint"
	"github.com/shaiso/Resonance/internal/domain"
	"github.com/shaiso/Resonance/internal/events"
	"github.com/shaiso/Resonance/internal/poll"
	"github.com/shaiso/Resonance/internal/simapi"
	"github.com/shaiso/Resonance/internal/telemetry"
)

// Default configuration values.
const (
	defaultPollInterval = 30 * time.Second
	defaultPollTimeout  = 6 * time.Hour

	// Подготовительные операции (импорт, меширование) заметно короче
	// решения, поэтому опрашиваются чаще.
	prepPollInterval = 5 * time.Second
	prepPollTimeout  = 30 * time.Minute
)

// Orchestrator управляет выполнением задачи.
//
// Оркестратор строит спецификацию из кейса, проводит её через стадии
// подготовки на платформе, запускает решатель, ждёт терминального
// статуса и забирает результаты. Каждая стадия чекпоинтится.
type Orchestrator struct {
	client    *simapi.Client
	store     *checkpoint.Store
	publisher *events.Publisher

	pollInterval time.Duration
	pollTimeout  time.Duration

	logger *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Client — клиент платформы.
	Client *simapi.Client

	// Store — хранилище чекпоинтов.
	Store *checkpoint.Store

	// Publisher — публикация переходов статуса. Nil — без событий.
	Publisher *events.Publisher

	// PollInterval — интервал опроса статуса решателя (default: 30s).
	PollInterval time.Duration

	// PollTimeout — общий бюджет ожидания решателя (default: 6h).
	PollTimeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт Orchestrator.
func New(cfg Config) *Orchestrator {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		client:       cfg.Client,
		store:        cfg.Store,
		publisher:    cfg.Publisher,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
	}
}

// Run выполняет полный конвейер для кейса: build → submit → poll → fetch.
func (o *Orchestrator) Run(ctx context.Context, c *casefile.Case) (*domain.ResultSet, error) {
	// Построение спецификации — чистое, до каких-либо сетевых вызовов.
	spec, err := casefile.Build(c)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:        uuid.New(),
		CaseName:  spec.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	o.logger.Info("starting pipeline", "job_id", job.ID, "case", job.CaseName)
	return o.execute(ctx, job, spec)
}

// Submit проводит кейс через стадии подготовки и запускает решатель,
// не дожидаясь завершения. Возвращает задачу с заполненным хэндлом;
// дальше её ведут AwaitCompletion, RefreshStatus и Resume.
func (o *Orchestrator) Submit(ctx context.Context, c *casefile.Case) (*domain.Job, error) {
	spec, err := casefile.Build(c)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:        uuid.New(),
		CaseName:  spec.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	o.logger.Info("submitting job", "job_id", job.ID, "case", job.CaseName)
	if err := o.runStages(ctx, job, spec, mustStageIndex(StageStartRun)); err != nil {
		return nil, err
	}
	return job, nil
}

// Resume продолжает задачу из чекпоинта с первой незавершённой стадии.
//
// Если решатель уже запущен (stage >= start_run), спецификация не нужна
// и c может быть nil. Для более ранних стадий требуется исходный кейс.
func (o *Orchestrator) Resume(ctx context.Context, job *domain.Job, c *casefile.Case) (*domain.ResultSet, error) {
	done, err := stageIndex(job.Stage)
	if err != nil {
		return nil, err
	}

	var spec *domain.JobSpecification
	if c != nil {
		spec, err = casefile.Build(c)
		if err != nil {
			return nil, err
		}
	} else if done < mustStageIndex(StageStartRun) {
		return nil, fmt.Errorf("%w: job stopped at stage %q", ErrSpecRequired, job.Stage)
	}

	o.logger.Info("resuming pipeline",
		"job_id", job.ID,
		"case", job.CaseName,
		"completed_stage", job.Stage,
	)
	return o.execute(ctx, job, spec)
}

// execute проводит задачу через незавершённые стадии и забирает результаты.
func (o *Orchestrator) execute(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) (*domain.ResultSet, error) {
	if err := o.runStages(ctx, job, spec, len(stages)-1); err != nil {
		return nil, err
	}
	return o.FetchResults(telemetry.WithLogger(ctx, telemetry.WithJobID(o.logger, job.ID.String())), job)
}

// runStages выполняет незавершённые стадии до until включительно.
func (o *Orchestrator) runStages(ctx context.Context, job *domain.Job, spec *domain.JobSpecification, until int) error {
	logger := telemetry.WithCase(telemetry.WithJobID(o.logger, job.ID.String()), job.CaseName)
	ctx = telemetry.WithLogger(ctx, logger)

	done, err := stageIndex(job.Stage)
	if err != nil {
		return err
	}

	for i, st := range stages {
		if i <= done || i > until {
			continue
		}

		stageLogger := telemetry.WithStage(logger, st.name)
		stageLogger.Info("stage started")

		if err := st.fn(o, ctx, job, spec); err != nil {
			job.Error = err.Error()
			o.saveCheckpoint(ctx, job)
			stageLogger.Error("stage failed", "error", err)
			return err
		}

		job.MarkStage(st.name)
		o.saveCheckpoint(ctx, job)
		stageLogger.Info("stage finished")
	}

	return nil
}

// AwaitCompletion блокирует до терминального статуса решателя.
//
// Никогда не возвращает нетерминальный статус. Transport-ошибки
// повторяются в пределах бюджета; auth/validation прерывают ожидание
// сразу — повтор не изменит отвергнутую спецификацию.
func (o *Orchestrator) AwaitCompletion(ctx context.Context, job *domain.Job) (domain.JobStatus, error) {
	if job.Handle.IsZero() {
		return "", fmt.Errorf("%w: job was not submitted", simapi.ErrInvalidHandle)
	}

	logger := telemetry.FromContext(ctx)

	waiter := &poll.Waiter{
		Interval:  o.pollInterval,
		Timeout:   o.pollTimeout,
		Stage:     "run",
		Retryable: isTransport,
		OnTransition: func(from, to domain.JobStatus) {
			o.noteTransition(ctx, job, from, to)
		},
		Logger: logger,
	}

	status, err := waiter.Wait(ctx, func(ctx context.Context) (domain.JobStatus, error) {
		status, progress, err := o.client.GetRun(ctx, job.Handle)
		if err != nil {
			return "", err
		}
		logger.Info("solver status", "status", status.String(), "progress", fmt.Sprintf("%.0f%%", progress*100))
		return status, nil
	})
	if err != nil {
		return "", err
	}

	telemetry.JobsCompleted.WithLabelValues(status.String()).Inc()
	return status, nil
}

// FetchResults возвращает результаты задачи.
//
// Валидно только после FINISHED: нетерминальная задача — ErrNotReady,
// FAILED — ErrJobFailed, CANCELED — ErrJobCanceled. Частичные
// результаты не возвращаются никогда.
func (o *Orchestrator) FetchResults(ctx context.Context, job *domain.Job) (*domain.ResultSet, error) {
	if job.Handle.IsZero() {
		return nil, fmt.Errorf("%w: job was not submitted", simapi.ErrInvalidHandle)
	}

	switch job.Status {
	case domain.StatusFinished:
		// продолжаем
	case domain.StatusFailed:
		if job.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
		}
		return nil, ErrJobFailed
	case domain.StatusCanceled:
		return nil, ErrJobCanceled
	default:
		return nil, fmt.Errorf("%w: status %s", ErrNotReady, job.Status)
	}

	return o.client.GetRunResults(ctx, job.Handle)
}

// RefreshStatus запрашивает текущий статус задачи у платформы
// и чекпоинтит его.
func (o *Orchestrator) RefreshStatus(ctx context.Context, job *domain.Job) (domain.JobStatus, float64, error) {
	if job.Handle.IsZero() {
		return "", 0, fmt.Errorf("%w: job was not submitted", simapi.ErrInvalidHandle)
	}

	status, progress, err := o.client.GetRun(ctx, job.Handle)
	if err != nil {
		return "", 0, err
	}

	if status != job.Status {
		o.noteTransition(ctx, job, job.Status, status)
	}
	return status, progress, nil
}

// noteTransition фиксирует переход статуса: чекпоинт, событие, лог.
func (o *Orchestrator) noteTransition(ctx context.Context, job *domain.Job, from, to domain.JobStatus) {
	job.MarkStatus(to)
	o.saveCheckpoint(ctx, job)

	if o.publisher != nil {
		err := o.publisher.PublishTransition(ctx, events.TransitionPayload{
			JobID:    job.ID,
			CaseName: job.CaseName,
			Handle:   job.Handle,
			From:     from,
			To:       to,
		})
		if err != nil {
			telemetry.FromContext(ctx).Warn("failed to publish transition", "error", err)
		}
	}
}

// saveCheckpoint сохраняет запись задачи. Ошибка чекпоинта не фатальна
// для текущего запуска — теряется только возможность resume.
func (o *Orchestrator) saveCheckpoint(ctx context.Context, job *domain.Job) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, job); err != nil {
		telemetry.FromContext(ctx).Warn("failed to save checkpoint", "error", err)
	}
}

// isTransport сообщает poll-циклу, какие ошибки восстановимы.
func isTransport(err error) bool {
	return errors.Is(err, simapi.ErrTransport)
}
