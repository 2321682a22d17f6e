// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iontide/iontide-go/wire"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	File        string
	Label       string
	Repetitions int
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit --file payload.json",
		Short: "Submit a wire-format job request",
		Long: `Submit a job request stored as JSON in the IonTide wire format.

The file holds a complete job request: job type, label and the batch of
quantum circuits. The job identifier is printed on success; follow with
"iontide result <job-id>".

Example:
  iontide submit --file bell.json --label "bell run" --repetitions 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "job request JSON file (required)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "override the request label")
	cmd.Flags().IntVar(&opts.Repetitions, "repetitions", 0, "override the shot count of every circuit")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *SubmitOptions) error {
	data, err := os.ReadFile(opts.File)
	if err != nil {
		return err
	}
	var req wire.JobRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("when parsing %s: %w", opts.File, err)
	}
	if opts.Label != "" {
		req.Label = opts.Label
	}
	if opts.Repetitions > 0 {
		for i := range req.Payload.Circuits {
			req.Payload.Circuits[i].Repetitions = opts.Repetitions
		}
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid job request %s: %w", opts.File, err)
	}

	if err := opts.requireResource(); err != nil {
		return err
	}
	c, err := opts.newClient()
	if err != nil {
		return err
	}
	jobID, err := c.SubmitJob(cmd.Context(), opts.Workspace, opts.Resource, &req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), jobID)
	return nil
}
