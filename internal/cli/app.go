package cli

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Resonance/internal/checkpoint"
	"github.com/shaiso/Resonance/internal/config"
	"github.com/shaiso/Resonance/internal/events"
	"github.com/shaiso/Resonance/internal/pipeline"
	"github.com/shaiso/Resonance/internal/simapi"
)

// App — зависимости команд CLI.
//
// Создаются лениво: validate не открывает базу чекпоинтов,
// jobs list не создаёт клиент платформы.
type App struct {
	settings *config.Settings
	logger   *slog.Logger

	mu        sync.Mutex
	client    *simapi.Client
	store     *checkpoint.Store
	amqp      *events.Connection
	publisher *events.Publisher
	amqpTried bool
}

// NewApp создаёт контейнер зависимостей.
func NewApp(settings *config.Settings, logger *slog.Logger) *App {
	return &App{settings: settings, logger: logger}
}

// Client возвращает клиент платформы.
func (a *App) Client() *simapi.Client {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		a.client = simapi.NewClient(a.settings.APIURL, a.settings.APIKey, a.logger)
	}
	return a.client
}

// Store возвращает базу чекпоинтов, открывая её при первом обращении.
func (a *App) Store() (*checkpoint.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		store, err := checkpoint.Open(a.settings.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open checkpoint database %s: %w", a.settings.DBPath, err)
		}
		a.store = store
	}
	return a.store, nil
}

// OverridePoll переопределяет интервал и бюджет опроса из флагов команды.
// Нулевые значения оставляют настройки из окружения.
func (a *App) OverridePoll(interval, timeout time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if interval > 0 {
		a.settings.PollInterval = interval
	}
	if timeout > 0 {
		a.settings.PollTimeout = timeout
	}
}

// Orchestrator собирает оркестратор пайплайна.
func (a *App) Orchestrator() (*pipeline.Orchestrator, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Config{
		Client:       a.Client(),
		Store:        store,
		Publisher:    a.Publisher(),
		PollInterval: a.settings.PollInterval,
		PollTimeout:  a.settings.PollTimeout,
		Logger:       a.logger,
	}), nil
}

// Publisher возвращает publisher событий или nil.
//
// Недоступность RabbitMQ не блокирует пайплайн: события — дополнение,
// без них задача выполняется как обычно.
func (a *App) Publisher() *events.Publisher {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.amqpTried || a.settings.AMQPURL == "" {
		return a.publisher
	}
	a.amqpTried = true

	conn, err := events.Dial(a.settings.AMQPURL, a.logger)
	if err != nil {
		a.logger.Warn("RabbitMQ not available, running without events", "error", err)
		return nil
	}

	publisher, err := events.NewPublisher(conn, a.logger)
	if err != nil {
		conn.Close()
		a.logger.Warn("failed to setup events exchange, running without events", "error", err)
		return nil
	}

	a.amqp = conn
	a.publisher = publisher
	return a.publisher
}

// Close освобождает открытые соединения.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.amqp != nil {
		a.amqp.Close()
		a.amqp = nil
		a.publisher = nil
	}
}
