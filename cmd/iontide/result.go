// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/iontide/iontide-go/client"
	"github.com/iontide/iontide-go/result"
	"github.com/iontide/iontide-go/wire"
)

// ResultOptions holds flags for the result command.
type ResultOptions struct {
	*RootOptions
	Poll        time.Duration
	Timeout     time.Duration
	Memory      bool
	ArchiveFile string
}

// NewResultCommand creates the result command.
func NewResultCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "result <job-id>",
		Short: "Wait for a job and print its counts",
		Long: `Poll a job until it reaches a terminal state and print the counts
histogram of every circuit.

The raw payload carries no register layout, so counts are reported in
natural qubit order: qubit 0 is the least significant bit. Use the SDK
for circuits whose measurements remap classical bits.

Example:
  iontide result 3f1a… --poll 2s --timeout 10m --archive samples.itsa`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, opts, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.Poll, "poll", time.Second, "sleep between status polls")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "give up after this long (0 waits forever)")
	cmd.Flags().BoolVar(&opts.Memory, "memory", false, "also print per-shot bitstrings")
	cmd.Flags().StringVar(&opts.ArchiveFile, "archive", "", "write the raw samples to this archive file")

	return cmd
}

func runResult(cmd *cobra.Command, opts *ResultOptions, jobID string) error {
	c, err := opts.newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	status, err := waitTerminal(ctx, c, jobID, opts.Poll)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if status.Status != wire.StatusFinished {
		printStatus(cmd, status)
		return nil
	}

	indices := make([]int, 0, len(status.Results))
	for i := range status.Results {
		indices = append(indices, i)
	}
	slices.Sort(indices)

	for _, i := range indices {
		samples := status.Results[i]
		fmt.Fprintf(out, "circuit %d (%d shots):\n", i, len(samples))
		counts := result.FormatCounts(samples, nil)
		values := make([]string, 0, len(counts))
		for v := range counts {
			values = append(values, v)
		}
		slices.Sort(values)
		for _, v := range values {
			fmt.Fprintf(out, "  %s: %d\n", v, counts[v])
		}
		if opts.Memory {
			for _, m := range result.FormatMemory(samples, nil) {
				fmt.Fprintf(out, "  %s\n", m)
			}
		}
	}

	if opts.ArchiveFile != "" {
		return writeArchive(opts.ArchiveFile, jobID, status, indices)
	}
	return nil
}

// waitTerminal polls until the job reaches a terminal state or ctx is done.
func waitTerminal(ctx context.Context, c *client.Client, jobID string, poll time.Duration) (*wire.StatusResponse, error) {
	for {
		status, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if status.Status.Terminal() {
			return status, nil
		}
		select {
		case <-time.After(poll):
		case <-ctx.Done():
			return nil, fmt.Errorf("job %s not terminal yet: %w", jobID, ctx.Err())
		}
	}
}

func writeArchive(path, jobID string, status *wire.StatusResponse, indices []int) error {
	a := &result.Archive{JobID: jobID, Circuits: make([]result.CircuitSamples, 0, len(indices))}
	for _, i := range indices {
		samples := status.Results[i]
		if len(samples) == 0 {
			return fmt.Errorf("circuit %d has no shots; nothing to archive", i)
		}
		a.Circuits = append(a.Circuits, result.CircuitSamples{
			NumQubits: len(samples[0]),
			Samples:   samples,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := a.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("when writing archive %s: %w", path, err)
	}
	return f.Close()
}
