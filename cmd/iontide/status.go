// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iontide/iontide-go/wire"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Poll a job's lifecycle state once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient()
			if err != nil {
				return err
			}
			status, err := c.JobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, status *wire.StatusResponse) {
	out := cmd.OutOrStdout()
	switch status.Status {
	case wire.StatusOngoing:
		fmt.Fprintf(out, "%s (%d circuits finished)\n", status.Status, status.FinishedCount)
	case wire.StatusError:
		fmt.Fprintf(out, "%s: %s\n", status.Status, status.Message)
	default:
		fmt.Fprintln(out, status.Status)
	}
}
