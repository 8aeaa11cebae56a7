package poll

import "errors"

// Ошибки poll-цикла.
var (
	// ErrTimeout — бюджет ожидания исчерпан, задача не терминальна.
	ErrTimeout = errors.New("poll timeout exceeded")

	// ErrStatusRegression — платформа вернула статус с меньшим рангом,
	// чем уже наблюдавшийся. Контракт запрещает переход из терминального
	// статуса в нетерминальный; наблюдение такого перехода — protocol
	// violation, который поднимается наверх, а не гасится.
	ErrStatusRegression = errors.New("status regression: service contract violated")

	// ErrNoStatusFunc — Wait вызван без функции опроса.
	ErrNoStatusFunc = errors.New("status function is nil")
)
