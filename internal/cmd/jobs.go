package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// JobsCmd returns the `shopos jobs` command group.
func JobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List and move jobs",
	}
	cmd.AddCommand(jobsListCmd())
	cmd.AddCommand(jobsMoveCmd())
	return cmd
}

func jobsListCmd() *cobra.Command {
	var (
		status string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			params := api.QueryParams{}
			if status != "" {
				s, err := workflow.ParseStatus(status)
				if err != nil {
					return err
				}
				params["status"] = string(s)
			}
			if limit > 0 {
				params["limit"] = fmt.Sprintf("%d", limit)
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}
			jobs, err := client.ListJobs(params)
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}

			out := c.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "no jobs found")
				return nil
			}
			for _, j := range jobs {
				writeJobLine(out, j)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only jobs in this status")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of jobs")
	return cmd
}

func writeJobLine(out io.Writer, j api.Job) {
	num := j.JobNumber
	if num == "" {
		num = j.ID
	}
	line := fmt.Sprintf("  %-10s %-18s %s", num, j.Status.Label(), j.Title)
	if j.Priority == workflow.PriorityHigh {
		line += " [high]"
	}
	fmt.Fprintln(out, line)
}

func jobsMoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "move <job-id> <status>",
		Short: "Move a job to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			target, err := workflow.ParseStatus(args[1])
			if err != nil {
				return err
			}

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			job, err := client.GetJob(args[0])
			if err != nil {
				return fmt.Errorf("get job: %w", err)
			}
			inBay, err := client.ListJobs(api.QueryParams{"status": string(workflow.StatusInBay)})
			if err != nil {
				return fmt.Errorf("count bay jobs: %w", err)
			}

			ctx := workflow.TransitionContext{BayCapacity: cfg.Bays(), CurrentBayJobs: len(inBay)}
			decision := workflow.CanTransitionTo(job.WorkflowJob(), target, &ctx)
			if !decision.Allowed {
				return fmt.Errorf("cannot move job: %s", decision.Reason)
			}

			out := c.OutOrStdout()
			rule := workflow.ValidateTransition(job.Status, target, nil)
			if rule != nil && rule.RequiresConfirmation && !yes {
				if rule.WarningMessage != "" {
					fmt.Fprintln(out, rule.WarningMessage)
				}
				for _, action := range rule.AutoActions {
					fmt.Fprintf(out, "  will: %s\n", action)
				}
				return fmt.Errorf("moving to %s needs confirmation; rerun with --yes", target.Label())
			}

			if _, err := client.UpdateJobStatus(job.ID, target); err != nil {
				return fmt.Errorf("move job: %w", err)
			}
			msg := workflow.GetTransitionMessage(job.Status, target)
			if decision.Reason != "" {
				msg += " (" + strings.TrimSuffix(decision.Reason, ".") + ")"
			}
			fmt.Fprintln(out, msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm transitions that need it")
	return cmd
}
