package commands

import (
	"ProjectDesk/internal/cli/api"
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd(client func() api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "Elenca i progetti",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := client().Projects(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "Nessun progetto")
				return nil
			}
			for _, p := range list {
				var tasks int64
				if p.Count != nil && p.Count.Tasks != nil {
					tasks = *p.Count.Tasks
				}
				fmt.Fprintf(out, "- %s  %s  T0=%s  task=%d\n", p.ID, p.Name, day(p.T0Date), tasks)
			}
			fmt.Fprintf(out, "Totale: %d\n", len(list))
			return nil
		},
	}
}
