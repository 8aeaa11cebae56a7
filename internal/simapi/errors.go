package simapi

import "errors"

// Ошибки клиента платформы.
//
// Разделение фатальных и восстановимых ошибок:
//   - ErrAuth и ErrValidation фатальны — повтор не изменит ни ключ,
//     ни отвергнутую спецификацию;
//   - ErrTransport восстановима — poll-цикл повторяет запрос
//     в пределах своего бюджета.
var (
	// ErrAuth — ключ API отсутствует или отвергнут платформой.
	ErrAuth = errors.New("authentication failed")

	// ErrValidation — платформа отвергла спецификацию.
	ErrValidation = errors.New("specification rejected by platform")

	// ErrTransport — сетевая ошибка или 5xx от платформы.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidHandle — хэндл пуст, либо задача удалена на платформе.
	ErrInvalidHandle = errors.New("invalid job handle")

	// ErrAPI — прочая ошибка платформы (4xx вне таксономии выше).
	ErrAPI = errors.New("platform request failed")
)
