// Package casefile парсит и валидирует декларативные case-файлы (HCL).
//
// Case-файл описывает один harmonic response кейс: геометрию, материал,
// закрепления, нагрузку и частотную развёртку. Из кейса строится
// неизменяемая domain.JobSpecification.
//
// Построение спецификации детерминировано и не имеет сетевых эффектов:
// все ошибки конфигурации обнаруживаются до первого запроса к платформе
// и заворачиваются в ErrConfiguration.
package casefile
