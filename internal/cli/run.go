package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Resonance/internal/casefile"
)

// NewRunCmd создаёт команду запуска полного пайплайна.
func NewRunCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	var name string
	var pollInterval, pollTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "run CASE_FILE",
		Short: "Run the full pipeline for a case file",
		Long: `Run builds a job specification from the case file, submits it to the
simulation platform, waits for the solver to finish and prints the results.

The pipeline is checkpointed after every stage. An interrupted run can be
continued with "resonance resume".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			c, err := casefile.Load(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				c.Name = name
			}

			app.OverridePoll(pollInterval, pollTimeout)
			orch, err := app.Orchestrator()
			if err != nil {
				return err
			}

			results, err := orch.Run(cmd.Context(), c)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Case %q finished", c.Name))
			out.PrintResults(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Override the case name")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Solver status poll interval (default from RESONANCE_POLL_INTERVAL)")
	cmd.Flags().DurationVar(&pollTimeout, "timeout", 0, "Total wall-clock budget for the solve (default from RESONANCE_POLL_TIMEOUT)")

	return cmd
}

// NewSubmitCmd создаёт команду запуска задачи без ожидания решателя.
//
// Решение может идти часами; submit запускает его и возвращает
// управление. Дальше задачу ведут status, resume и results.
func NewSubmitCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "submit CASE_FILE",
		Short: "Submit a case and exit without waiting for the solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			c, err := casefile.Load(args[0])
			if err != nil {
				return err
			}

			orch, err := app.Orchestrator()
			if err != nil {
				return err
			}

			job, err := orch.Submit(cmd.Context(), c)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job submitted: %s", job.ID))
			out.Print(jobHeaders, [][]string{jobRow(job)}, job)
			return nil
		},
	}
}

// NewResumeCmd создаёт команду возобновления задачи из чекпоинта.
func NewResumeCmd(appFn func() *App, outputFn func() *Output) *cobra.Command {
	var caseFile string

	cmd := &cobra.Command{
		Use:   "resume [JOB_ID]",
		Short: "Resume an interrupted job from its checkpoint",
		Long: `Resume continues a job from the first incomplete stage. Without JOB_ID
the most recent job is resumed.

If the solver was already started, the checkpointed handle is enough.
Jobs interrupted earlier need the original case file (--case).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := outputFn()

			job, err := resolveJob(cmd, app, args)
			if err != nil {
				return err
			}

			var c *casefile.Case
			if caseFile != "" {
				c, err = casefile.Load(caseFile)
				if err != nil {
					return err
				}
			}

			orch, err := app.Orchestrator()
			if err != nil {
				return err
			}

			results, err := orch.Resume(cmd.Context(), job, c)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job %s finished", job.ID))
			out.PrintResults(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&caseFile, "case", "", "Case file (required for jobs interrupted before the solver start)")

	return cmd
}
