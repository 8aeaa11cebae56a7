// Package poll реализует переиспользуемый цикл опроса удалённой задачи.
//
// Waiter — самостоятельная, тестируемая единица: стратегия повторов
// и таймаутов отделена от оркестратора. Один и тот же Waiter обслуживает
// ожидание импорта геометрии, меширования и запуска решателя.
//
// Гарантии:
//   - Wait никогда не возвращает нетерминальный статус;
//   - наблюдаемые статусы монотонно неубывают, регресс — ошибка;
//   - восстановимые (transport) ошибки повторяются с тем же интервалом
//     в пределах общего бюджета, фатальные прерывают ожидание сразу;
//   - бюджет — локальное wall-clock время: платформа дедлайн не задаёт.
package poll
