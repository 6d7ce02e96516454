package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

func newParamsCommand(ctx *commandContext) *cobra.Command {
	var entityFlag string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "List the recognized parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := ctx.engine.Registry()
			specs := reg.All()
			if entityFlag != "" {
				kind, err := schema.ParseEntityKind(entityFlag)
				if err != nil {
					return err
				}
				specs = reg.ForEntity(kind)
			}

			rows := make([][]string, 0, len(specs))
			for _, spec := range specs {
				rows = append(rows, []string{
					spec.Name,
					spec.Entity.String(),
					spec.TypeName(),
					yesNo(spec.PerEntity),
					describeDefault(spec),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("",
				[]string{"Name", "Entity", "Type", "Per entity", "Default"},
				rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&entityFlag, "entity", "", "Only list parameters of this entity kind (curve, axis, subplot, figure)")
	return cmd
}

func describeDefault(spec *schema.ParameterSpec) string {
	if len(spec.Cycle) > 0 {
		return fmt.Sprintf("cycle of %d, starting %v", len(spec.Cycle), spec.Cycle[0])
	}
	return fmt.Sprintf("%v", spec.Default)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
