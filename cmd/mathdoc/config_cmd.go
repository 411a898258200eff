package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-mathdoc/internal/assets"
	"github.com/alnah/go-mathdoc/internal/yamlutil"
)

// newConfigCmd builds the config inspection commands.
func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the configuration after file and environment overrides, as YAML",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(*cobra.Command, []string) error {
				data, err := yamlutil.Encode(a.env.Config)
				if err != nil {
					return err
				}
				_, err = a.env.Stdout.Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "styles",
			Short: "List the built-in page styles",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(*cobra.Command, []string) error {
				for _, name := range assets.StyleNames() {
					fmt.Fprintln(a.env.Stdout, name)
				}
				return nil
			},
		},
	)
	return cmd
}
