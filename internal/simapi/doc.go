// Package simapi реализует HTTP-клиент REST API облачной платформы
// моделирования.
//
// Платформа — внешний сервис с фиксированным контрактом: submit
// принимает структурированную спецификацию и возвращает хэндл,
// запрос статуса возвращает один из пяти статусов, запрос результатов
// отдаёт их после терминального состояния.
//
// Клиент маппит ответы платформы в таксономию ошибок:
//   - 401/403 → ErrAuth (фатально)
//   - 400/422 → ErrValidation (фатально)
//   - 404     → ErrInvalidHandle
//   - сеть/5xx → ErrTransport (повторяется poll-циклом)
package simapi
