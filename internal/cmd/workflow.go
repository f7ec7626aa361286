package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// WorkflowCmd returns the `shopos workflow` command. It prints the job
// lifecycle and the moves allowed out of each status; it needs no login.
func WorkflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workflow [status]",
		Short: "Show job statuses and allowed transitions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if len(args) == 1 {
				s := workflow.Status(args[0])
				if _, ok := workflow.Meta(s); !ok {
					return fmt.Errorf("unknown status %q", args[0])
				}
				writeStatus(out, s)
				return nil
			}
			for i, s := range workflow.Statuses {
				if i > 0 {
					fmt.Fprintln(out)
				}
				writeStatus(out, s)
			}
			return nil
		},
	}
}

func writeStatus(out io.Writer, s workflow.Status) {
	meta, _ := workflow.Meta(s)
	fmt.Fprintf(out, "%s %s (%s) %d%% · typical %s\n", meta.Icon, meta.Label, s, meta.Progress, meta.EstimatedTime)
	fmt.Fprintf(out, "  %s\n", meta.Description)

	rules := workflow.GetValidTransitions(s)
	if len(rules) == 0 {
		fmt.Fprintln(out, "  no further moves")
		return
	}
	for _, rule := range rules {
		line := "  → " + rule.To.Label()
		if rule.RequiresConfirmation {
			line += " (confirm)"
		}
		fmt.Fprintln(out, line)
		for _, pre := range rule.Prerequisites {
			fmt.Fprintf(out, "      needs: %s\n", pre.Description)
		}
	}
}
