package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Resonance/internal/domain"
)

// resolveJob возвращает задачу по аргументу команды
// или последнюю чекпоинтнутую, если аргумент не передан.
func resolveJob(cmd *cobra.Command, app *App, args []string) (*domain.Job, error) {
	store, err := app.Store()
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return store.Latest(cmd.Context())
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid job ID %q: %w", args[0], err)
	}
	return store.Get(cmd.Context(), id)
}

// NewJobsCmd создаёт группу команд для работы с чекпоинтами задач.
func NewJobsCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage checkpointed jobs",
	}

	cmd.AddCommand(
		newJobsListCmd(appFn, outputFn),
		newJobsShowCmd(appFn, outputFn),
		newJobsDeleteCmd(appFn, outputFn),
	)

	return cmd
}

func newJobsListCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checkpointed jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			store, err := app.Store()
			if err != nil {
				return err
			}

			jobs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, len(jobs))
			for i := range jobs {
				rows[i] = jobRow(&jobs[i])
			}

			out.Print(jobHeaders, rows, jobs)
			return nil
		},
	}
}

func newJobsShowCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show [JOB_ID]",
		Short: "Show job details",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			job, err := resolveJob(cmd, app, args)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"id", job.ID.String()},
				{"case", job.CaseName},
				{"stage", job.Stage},
				{"status", job.Status.String()},
				{"project", job.Handle.ProjectID},
				{"simulation", job.Handle.SimulationID},
				{"run", job.Handle.RunID},
				{"created", formatTime(job.CreatedAt)},
				{"updated", formatTime(job.UpdatedAt)},
			}
			if job.Error != "" {
				rows = append(rows, []string{"error", job.Error})
			}

			out.Print([]string{"FIELD", "VALUE"}, rows, job)
			return nil
		},
	}
}

func newJobsDeleteCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete JOB_ID",
		Short: "Delete a job checkpoint",
		Long: `Delete removes the local checkpoint only. The remote job, if any,
keeps running on the platform and becomes untracked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid job ID %q: %w", args[0], err)
			}

			store, err := app.Store()
			if err != nil {
				return err
			}

			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job deleted: %s", id))
			return nil
		},
	}
}

// NewStatusCmd создаёт команду запроса текущего статуса у платформы.
func NewStatusCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status [JOB_ID]",
		Short: "Query the current job status from the platform",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			job, err := resolveJob(cmd, app, args)
			if err != nil {
				return err
			}

			orch, err := app.Orchestrator()
			if err != nil {
				return err
			}

			status, progress, err := orch.RefreshStatus(cmd.Context(), job)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "CASE", "STATUS", "PROGRESS"},
				[][]string{{job.ID.String(), job.CaseName, status.String(), formatProgress(progress)}},
				map[string]any{"id": job.ID, "case_name": job.CaseName, "status": status, "progress": progress},
			)
			return nil
		},
	}
}

// NewResultsCmd создаёт команду получения результатов завершённой задачи.
func NewResultsCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "results [JOB_ID]",
		Short: "Fetch results of a finished job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			job, err := resolveJob(cmd, app, args)
			if err != nil {
				return err
			}

			// Статус в чекпоинте мог устареть, пока задача шла без наблюдения.
			orch, err := app.Orchestrator()
			if err != nil {
				return err
			}
			if !job.IsFinished() {
				if _, _, err := orch.RefreshStatus(cmd.Context(), job); err != nil {
					return err
				}
			}

			results, err := orch.FetchResults(cmd.Context(), job)
			if err != nil {
				return err
			}

			out.PrintResults(results)
			return nil
		},
	}
}
