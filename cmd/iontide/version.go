// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	iontide "github.com/iontide/iontide-go"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the SDK version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iontide-go %s\n", iontide.Version)
			if !remote {
				return nil
			}

			c, err := rootOpts.newClient()
			if err != nil {
				return err
			}
			v, err := c.APIVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "api %s\n", v)
			return c.CheckAPIVersion(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also query and check the endpoint's API version")
	return cmd
}
