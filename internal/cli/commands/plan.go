package commands

import (
	"ProjectDesk/internal/cli/api"
	"ProjectDesk/internal/reldate"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newImportCmd(client func() api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "import <projectId> <file>",
		Short: "Importa fasi, work package e deliverable da un file JSON o YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			res, err := client().Import(cmd.Context(), args[0], args[1], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Importati: %d fasi, %d work package, %d deliverable\n",
				res.Counts.Phases, res.Counts.WorkPackages, res.Counts.Deliverables)
			return nil
		},
	}
}

// newT0Cmd: "none" очищает T0, иначе ожидается YYYY-MM-DD.
func newT0Cmd(client func() api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "t0 <projectId> <YYYY-MM-DD|none>",
		Short: "Imposta o azzera la data T0 del progetto",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t0 *string
			if v := strings.TrimSpace(args[1]); !strings.EqualFold(v, "none") {
				if !reldate.IsDay(v) {
					return fmt.Errorf("data non valida %q (YYYY-MM-DD o none)", v)
				}
				t0 = &v
			}
			if err := client().SetT0(cmd.Context(), args[0], t0); err != nil {
				return err
			}
			if t0 == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "T0 rimosso")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "T0 impostato a %s\n", *t0)
			}
			return nil
		},
	}
}
