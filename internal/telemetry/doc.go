// Package telemetry обеспечивает наблюдаемость пайплайна.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Логи пишутся в stderr в едином формате; метрики экспортируются
// на /metrics endpoint, если он включён в настройках.
package telemetry
