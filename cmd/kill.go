package cmd

import (
	"fmt"
	"strconv"

	"emperror.dev/errors"
	"github.com/spf13/cobra"

	"github.com/ftahirops/xmon/engine"
)

func (a *app) newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <pid>",
		Short: "Ask a process to terminate (SIGTERM)",
		Long:  "Sends a termination request to pid. A pid that no longer exists is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return errors.WrapIff(err, "invalid pid %q", args[0])
			}
			outcome := engine.NewExecutor().Terminate(int32(pid))
			fmt.Fprintf(cmd.OutOrStdout(), "pid %d: %s\n", pid, outcome)
			switch outcome {
			case engine.OutcomeDenied:
				return errors.Errorf("not permitted to signal pid %d", pid)
			case engine.OutcomeInvalid:
				return errors.Errorf("pid %d cannot be signalled", pid)
			}
			return nil
		},
	}
}
