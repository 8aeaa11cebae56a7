package domain

import "fmt"

// JobStatus — статус удалённой задачи на платформе.
//
// Жизненный цикл:
//
//	QUEUED → RUNNING → FINISHED
//	                 ↘ FAILED
//	         (или) → CANCELED (из QUEUED или RUNNING)
//
// Контракт платформы гарантирует монотонность: переход из терминального
// статуса обратно в нетерминальный невозможен. Нарушение фиксируется
// на стороне poll как protocol violation.
type JobStatus string

const (
	// StatusQueued — задача принята платформой, ожидает ресурсов.
	StatusQueued JobStatus = "QUEUED"

	// StatusRunning — задача выполняется на платформе.
	StatusRunning JobStatus = "RUNNING"

	// StatusFinished — задача успешно завершена, результаты доступны.
	StatusFinished JobStatus = "FINISHED"

	// StatusFailed — удалённое вычисление завершилось ошибкой.
	StatusFailed JobStatus = "FAILED"

	// StatusCanceled — задача отменена на стороне платформы.
	StatusCanceled JobStatus = "CANCELED"
)

// IsTerminal возвращает true, если статус финальный.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Rank возвращает позицию статуса в фиксированном порядке переходов.
// Используется для проверки монотонности при polling:
// QUEUED(0) < RUNNING(1) < терминальные(2).
func (s JobStatus) Rank() int {
	switch s {
	case StatusQueued:
		return 0
	case StatusRunning:
		return 1
	case StatusFinished, StatusFailed, StatusCanceled:
		return 2
	default:
		return -1
	}
}

// String возвращает строковое представление статуса.
func (s JobStatus) String() string {
	return string(s)
}

// ParseStatus парсит строку платформы в JobStatus.
// Неизвестный статус — ошибка: молча считать его каким-либо
// известным нельзя, это скроет нарушение контракта.
func ParseStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case StatusQueued, StatusRunning, StatusFinished, StatusFailed, StatusCanceled:
		return JobStatus(s), nil
	default:
		return "", fmt.Errorf("unknown job status: %q", s)
	}
}
