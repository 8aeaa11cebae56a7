// Package events публикует переходы статуса задач в RabbitMQ.
//
// Публикация необязательна: без RESONANCE_AMQP_URL пайплайн работает
// без событий. Потребители (дашборды, уведомления) подписываются
// на topic exchange resonance.jobs с ключами job.<status>.
package events
