// Package cli реализует инструмент командной строки Resonance.
//
// # Обзор
//
// CLI — единственный интерфейс пайплайна: запуск кейса, валидация
// case-файла, возобновление прерванной задачи, просмотр чекпоинтов,
// статуса и результатов.
//
// # Ключевые компоненты
//
// ## App
//
// Контейнер зависимостей команды: настройки, клиент платформы,
// база чекпоинтов, publisher событий. Зависимости создаются лениво —
// validate не открывает базу, jobs list не трогает сеть.
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: resonance jobs list --json | jq .
//
// ## Commands
//
//   - run: полный пайплайн для case-файла
//   - validate: проверка case-файла без сетевых вызовов
//   - submit: запуск задачи без ожидания решателя
//   - resume: продолжение задачи из чекпоинта
//   - jobs: list, show, delete — работа с чекпоинтами
//   - status: текущий статус задачи на платформе
//   - results: результаты завершённой задачи
//
// Каждая команда создаётся через фабричную функцию (NewRunCmd и т.д.),
// принимающую appFn и outputFn — замыкания для ленивого создания
// App и Output после парсинга PersistentFlags.
package cli
