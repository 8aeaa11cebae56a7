// Package pipeline реализует оркестратор задачи: линейный,
// чекпоинтируемый конвейер submit-and-poll поверх облачной платформы.
//
// # Стадии
//
// Конвейер строго последователен, один логический поток управления:
//
//	create_project → import_geometry → create_simulation → mesh →
//	start_run → await_run → fetch_results
//
// Единственная точка ожидания — poll-цикл (internal/poll), блокирующий
// вызывающего между запросами статуса. Разделяемого изменяемого
// состояния и конкурентных submit нет.
//
// # Чекпоинты и resume
//
// После каждой стадии запись задачи сохраняется в internal/checkpoint.
// Resume пропускает завершённые стадии; если решатель уже запущен,
// для возобновления достаточно хэндла — case-файл не нужен.
//
// # Отмена
//
// Отмена контекста кооперативна и локальна: poll-цикл останавливается,
// но удалённая задача продолжает выполняться на платформе. Чекпоинт
// позволяет переподключиться позже.
package pipeline
