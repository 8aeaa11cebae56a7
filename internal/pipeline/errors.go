package pipeline

import "errors"

// Ошибки оркестратора.
var (
	// ErrNotReady — запрошены результаты нетерминальной задачи.
	ErrNotReady = errors.New("job is not in a terminal state")

	// ErrJobFailed — удалённое вычисление завершилось FAILED.
	// Частичных результатов не бывает.
	ErrJobFailed = errors.New("remote job failed")

	// ErrJobCanceled — задача отменена на платформе, результатов нет.
	ErrJobCanceled = errors.New("remote job was canceled")

	// ErrSpecRequired — resume до запуска решателя требует case-файл:
	// без спецификации стадии подготовки не воспроизвести.
	ErrSpecRequired = errors.New("resume before start_run requires the case file")

	// ErrUnknownStage — чекпоинт содержит неизвестную стадию.
	ErrUnknownStage = errors.New("unknown pipeline stage in checkpoint")
)
