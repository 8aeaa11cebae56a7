// Package checkpoint хранит локальные чекпоинты задач в sqlite.
//
// После каждой стадии пайплайн сохраняет запись задачи: хэндл
// платформы, идентификаторы геометрии и сетки, последнюю завершённую
// стадию и наблюдавшийся статус. resume восстанавливает запись
// и продолжает с первой незавершённой стадии.
package checkpoint
