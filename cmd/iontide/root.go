// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iontide/iontide-go/client"
	"github.com/iontide/iontide-go/logger"
)

// RootOptions holds the global flags and resolved configuration shared by
// all commands.
type RootOptions struct {
	ConfigFile string
	Endpoint   string
	Token      string
	Workspace  string
	Resource   string
	Verbose    bool
}

// fileConfig is the on-disk configuration, by default at
// ~/.config/iontide/config.yaml. Flags override file values.
type fileConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Token     string `yaml:"token"`
	Workspace string `yaml:"workspace"`
	Resource  string `yaml:"resource"`
}

// NewRootCommand creates the root command of the iontide CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "iontide",
		Short:         "Submit and inspect circuit jobs on the IonTide cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Verbose {
				logger.Set(logger.Logger().Level(zerolog.WarnLevel))
			}
			return opts.loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "configuration file (default ~/.config/iontide/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "", "API endpoint URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "API token (overrides IONTIDE_TOKEN)")
	cmd.PersistentFlags().StringVar(&opts.Workspace, "workspace", "", "workspace name")
	cmd.PersistentFlags().StringVar(&opts.Resource, "resource", "", "resource identifier within the workspace")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewResultCommand(opts))
	cmd.AddCommand(NewBellCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// loadConfig fills unset options from the configuration file and the
// environment. A missing default file is fine; a missing explicit one is
// an error.
func (opts *RootOptions) loadConfig() error {
	path := opts.ConfigFile
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".config", "iontide", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			opts.fillFromEnv()
			return nil
		}
		return fmt.Errorf("when reading configuration %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("when parsing configuration %s: %w", path, err)
	}

	if opts.Endpoint == "" {
		opts.Endpoint = cfg.Endpoint
	}
	if opts.Token == "" {
		opts.Token = cfg.Token
	}
	if opts.Workspace == "" {
		opts.Workspace = cfg.Workspace
	}
	if opts.Resource == "" {
		opts.Resource = cfg.Resource
	}
	opts.fillFromEnv()
	return nil
}

func (opts *RootOptions) fillFromEnv() {
	if opts.Token == "" {
		opts.Token = os.Getenv("IONTIDE_TOKEN")
	}
}

// newClient builds the API client from the resolved options.
func (opts *RootOptions) newClient() (*client.Client, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("no API endpoint configured; pass --endpoint or set it in the configuration file")
	}
	if opts.Token == "" {
		return nil, errors.New("no API token configured; pass --token, set IONTIDE_TOKEN or the configuration file")
	}
	return client.New(opts.Endpoint, opts.Token)
}

// requireResource checks that a workspace and resource are configured.
func (opts *RootOptions) requireResource() error {
	if opts.Workspace == "" || opts.Resource == "" {
		return errors.New("no target configured; pass --workspace and --resource or set them in the configuration file")
	}
	return nil
}
