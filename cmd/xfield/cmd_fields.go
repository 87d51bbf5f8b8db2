package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/format"
	"github.com/dhamidi/xfield/loader"
	"github.com/dhamidi/xfield/xfactory"
)

func newFieldsCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "fields <path>...",
		Short: "List the fields declared in .class files, directories or .jar archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			factory := xfactory.New()
			if err := loadInto(cmd, factory, args); err != nil {
				return err
			}

			if err := enc.Encode(factory.Fields()); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line",
		"output format ("+strings.Join(format.Names, ", ")+")")

	return cmd
}

// loadInto reads every field under paths and interns it in factory.
func loadInto(cmd *cobra.Command, factory *xfactory.Factory, paths []string) error {
	fields, err := loader.Load(cmd.Context(), paths, analysis.WithOrdering(factory))
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	for _, f := range fields {
		factory.Intern(f)
	}
	return nil
}
