package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shaiso/Resonance/internal/domain"
)

// jobRecord — строка таблицы jobs.
type jobRecord struct {
	ID           string `gorm:"primaryKey"`
	CaseName     string
	ProjectID    string
	SimulationID string
	RunID        string
	GeometryID   string
	MeshID       string
	Stage        string
	Status       string
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (jobRecord) TableName() string { return "jobs" }

// Store — локальное хранилище чекпоинтов задач (sqlite).
//
// Хэндл сохраняется сразу после выдачи платформой: падение процесса
// посреди poll-цикла не теряет уже запущенную удалённую задачу.
type Store struct {
	db *gorm.DB
}

// Open открывает (и при необходимости мигрирует) базу чекпоинтов.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open checkpoint db: %w", err)
	}

	if err := db.AutoMigrate(&jobRecord{}); err != nil {
		return nil, fmt.Errorf("migrate checkpoint db: %w", err)
	}

	return &Store{db: db}, nil
}

// Save сохраняет чекпоинт задачи (insert или update по ID).
func (s *Store) Save(ctx context.Context, job *domain.Job) error {
	rec := toRecord(job)
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

// Get возвращает задачу по локальному ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var rec jobRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return fromRecord(&rec)
}

// Latest возвращает последнюю созданную задачу.
func (s *Store) Latest(ctx context.Context) (*domain.Job, error) {
	var rec jobRecord
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no jobs recorded", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest job: %w", err)
	}
	return fromRecord(&rec)
}

// List возвращает все задачи, новые первыми.
func (s *Store) List(ctx context.Context) ([]domain.Job, error) {
	var recs []jobRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]domain.Job, 0, len(recs))
	for i := range recs {
		job, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// Delete удаляет чекпоинт задачи.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&jobRecord{}, "id = ?", id.String())
	if res.Error != nil {
		return fmt.Errorf("delete job %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func toRecord(job *domain.Job) *jobRecord {
	return &jobRecord{
		ID:           job.ID.String(),
		CaseName:     job.CaseName,
		ProjectID:    job.Handle.ProjectID,
		SimulationID: job.Handle.SimulationID,
		RunID:        job.Handle.RunID,
		GeometryID:   job.GeometryID,
		MeshID:       job.MeshID,
		Stage:        job.Stage,
		Status:       string(job.Status),
		Error:        job.Error,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

func fromRecord(rec *jobRecord) (*domain.Job, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt job record %q: %w", rec.ID, err)
	}

	return &domain.Job{
		ID:       id,
		CaseName: rec.CaseName,
		Handle: domain.JobHandle{
			ProjectID:    rec.ProjectID,
			SimulationID: rec.SimulationID,
			RunID:        rec.RunID,
		},
		GeometryID: rec.GeometryID,
		MeshID:     rec.MeshID,
		Stage:      rec.Stage,
		Status:     domain.JobStatus(rec.Status),
		Error:      rec.Error,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}
