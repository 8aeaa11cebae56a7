// Resonance — CLI для harmonic response расчётов на облачной платформе.
//
// Использование:
//
//	resonance [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	run       Полный пайплайн для case-файла
//	validate  Проверка case-файла без сетевых вызовов
//	submit    Запуск задачи без ожидания решателя
//	resume    Возобновление задачи из чекпоинта
//	jobs      Работа с чекпоинтами задач
//	status    Текущий статус задачи на платформе
//	results   Результаты завершённой задачи
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Resonance/internal/cli"
	"github.com/shaiso/Resonance/internal/config"
	"github.com/shaiso/Resonance/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()

	// Отмена по Ctrl-C кооперативная: poll-цикл останавливается,
	// удалённая задача продолжает выполняться на платформе.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, err := config.Load()
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	// /metrics + /healthz на время жизни процесса
	if settings.MetricsAddr != "" {
		telemetry.ServeMetrics(settings.MetricsAddr, logger)
	}

	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "resonance",
		Short:         "Resonance — harmonic response jobs on a cloud simulation platform",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", settings.APIURL, "Platform API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	var app *cli.App
	appFn := func() *cli.App {
		if app == nil {
			s := *settings
			s.APIURL = apiURL
			app = cli.NewApp(&s, logger)
		}
		return app
	}
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRunCmd(appFn, outputFn),
		cli.NewValidateCmd(outputFn),
		cli.NewSubmitCmd(appFn, outputFn),
		cli.NewResumeCmd(appFn, outputFn),
		cli.NewJobsCmd(appFn, outputFn),
		cli.NewStatusCmd(appFn, outputFn),
		cli.NewResultsCmd(appFn, outputFn),
	)

	err = rootCmd.ExecuteContext(ctx)
	if app != nil {
		app.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
