package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/format"
	"github.com/dhamidi/xfield/xfactory"
)

func newLookupCmd() *cobra.Command {
	var (
		classpath    []string
		isStatic     bool
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "lookup <class> <name> <signature>",
		Short: "Resolve a field against a classpath, falling back to an unresolved placeholder",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			factory := xfactory.New()
			if len(classpath) > 0 {
				if err := loadInto(cmd, factory, classpath); err != nil {
					return err
				}
			}

			field := factory.Field(args[0], args[1], args[2], isStatic)
			if err := enc.Encode([]*analysis.FieldInfo{field}); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&classpath, "classpath", "c", nil, "class files, directories or jars to load")
	cmd.Flags().BoolVar(&isStatic, "static", false, "look up a static field")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json, yaml)")

	return cmd
}
