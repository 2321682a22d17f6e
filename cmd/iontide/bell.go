// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/iontide/iontide-go/backend"
	"github.com/iontide/iontide-go/circuit"
)

// BellOptions holds flags for the bell command.
type BellOptions struct {
	*RootOptions
	Qubits int
	Shots  int
	Memory bool
	Poll   time.Duration
}

// NewBellCommand creates the bell command, an end-to-end smoke test of a
// configured resource.
func NewBellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bell",
		Short: "Run a GHZ state on the configured resource",
		Long: `Build an n-qubit GHZ circuit from native gates, run it on the
configured resource and print the counts. An ideal device answers only
all-zeros and all-ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBell(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Qubits, "qubits", 2, "GHZ state size")
	cmd.Flags().IntVar(&opts.Shots, "shots", 100, "number of shots")
	cmd.Flags().BoolVar(&opts.Memory, "memory", false, "also print per-shot bitstrings")
	cmd.Flags().DurationVar(&opts.Poll, "poll", time.Second, "sleep between status polls")

	return cmd
}

func runBell(cmd *cobra.Command, opts *BellOptions) error {
	if opts.Qubits < 2 {
		return fmt.Errorf("a GHZ state needs at least 2 qubits, got %d", opts.Qubits)
	}
	if err := opts.requireResource(); err != nil {
		return err
	}
	c, err := opts.newClient()
	if err != nil {
		return err
	}

	ghz := ghzCircuit(opts.Qubits)
	res := backend.NewResource(c, opts.Workspace, opts.Resource)

	runOpts := []backend.Option{
		backend.WithShots(opts.Shots),
		backend.WithPollPeriod(opts.Poll),
		backend.WithLabel(fmt.Sprintf("ghz-%d", opts.Qubits)),
		backend.WithProgressFunc(func(finished, total int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rwaiting… %d/%d circuits finished", finished, total)
		}),
	}
	if opts.Memory {
		runOpts = append(runOpts, backend.WithMemory())
	}

	job, err := res.Run(cmd.Context(), []*circuit.Circuit{ghz}, runOpts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "job %s submitted\n", job.ID())

	out, err := job.Result(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())
	if !out.Success {
		fmt.Fprintf(cmd.OutOrStdout(), "job did not finish: %s\n", out.Message)
		return nil
	}

	exp := out.Experiments[0]
	values := make([]string, 0, len(exp.Counts))
	for v := range exp.Counts {
		values = append(values, v)
	}
	slices.Sort(values)
	for _, v := range values {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", v, exp.Counts[v])
	}
	for _, m := range exp.Memory {
		fmt.Fprintln(cmd.OutOrStdout(), m)
	}
	return nil
}

// ghzCircuit prepares |0…0⟩+|1…1⟩ from native gates: a half rotation on
// qubit 0 followed by a chain of maximal RXX interactions.
func ghzCircuit(n int) *circuit.Circuit {
	c := circuit.New(fmt.Sprintf("ghz-%d", n))
	q := c.AddQuantumRegister("q", n)
	m := c.AddClassicalRegister("meas", n)

	c.R(math.Pi/2, math.Pi/2, q.Bit(0))
	for i := 1; i < n; i++ {
		c.RXX(math.Pi/2, q.Bit(i-1), q.Bit(i))
	}
	for i := 0; i < n; i++ {
		c.Measure(q.Bit(i), m.Bit(i))
	}
	return c
}
