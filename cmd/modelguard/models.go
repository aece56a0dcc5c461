package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deppfellow/go-modelguard/internal/api"
	"github.com/deppfellow/go-modelguard/internal/lib/utils"
)

func newModelsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models [name]",
		Short: "List the registered models or show one model's fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if asJSON {
					return utils.PrintJSON(out, api.Catalog())
				}
				for _, name := range api.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			info, ok := api.Info(args[0])
			if !ok {
				return &exitError{code: exitInput, err: errors.Errorf("unknown model %q", args[0])}
			}
			if asJSON {
				return utils.PrintJSON(out, info)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tWIRE NAME\tREQUIRED\tDECLARED BY")
			for _, f := range info.Fields {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.Name, f.WireName, f.Required, f.DeclaredBy)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print field tables as JSON")
	return cmd
}
