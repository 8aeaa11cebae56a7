package checkpoint

import "errors"

// Ошибки хранилища чекпоинтов.
var (
	// ErrNotFound — задача не найдена в локальной базе.
	ErrNotFound = errors.New("job not found")
)
