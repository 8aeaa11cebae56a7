package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings — настройки процесса из переменных окружения.
//
// Читаются один раз при старте. API-ключ валидируется лениво:
// его отсутствие обнаруживается при первом запросе к платформе
// (AuthenticationError на submit), а не при старте.
type Settings struct {
	// APIKey — ключ доступа к платформе. Передаётся в заголовке X-API-KEY.
	APIKey string `envconfig:"SIMSCALE_API_KEY" default:""`

	// APIURL — базовый URL REST API платформы.
	APIURL string `envconfig:"SIMSCALE_API_URL" default:"https://api.simscale.com/v0"`

	// DBPath — путь к локальной базе чекпоинтов (sqlite).
	DBPath string `envconfig:"RESONANCE_DB" default:"resonance.db"`

	// AMQPURL — адрес RabbitMQ для публикации событий переходов статуса.
	// Пусто — события не публикуются.
	AMQPURL string `envconfig:"RESONANCE_AMQP_URL" default:""`

	// MetricsAddr — адрес /metrics endpoint на время выполнения run.
	// Пусто — endpoint не поднимается.
	MetricsAddr string `envconfig:"RESONANCE_METRICS_ADDR" default:""`

	// PollInterval — интервал опроса статуса по умолчанию.
	PollInterval time.Duration `envconfig:"RESONANCE_POLL_INTERVAL" default:"30s"`

	// PollTimeout — общий бюджет ожидания задачи по умолчанию.
	// Платформа дедлайн не навязывает, бюджет контролируется локально.
	PollTimeout time.Duration `envconfig:"RESONANCE_POLL_TIMEOUT" default:"6h"`
}

// Load читает настройки из окружения.
func Load() (*Settings, error) {
	s := new(Settings)
	if err := envconfig.Process("", s); err != nil {
		return nil, err
	}
	return s, nil
}
