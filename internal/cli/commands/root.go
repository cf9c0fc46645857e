// Package commands — команды pdcli на cobra.
package commands

import (
	"ProjectDesk/internal/cli/api"
	"ProjectDesk/internal/config"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Версия задаётся через ldflags при сборке.
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// ClientFactory создаёт клиента API для адреса сервера.
type ClientFactory func(serverURL string) api.Client

// NewRootCmd собирает дерево команд; адрес сервера берётся из --server
// или из настроек окружения (BASE_URL, ENABLE_HTTPS).
func NewRootCmd(newClient ClientFactory) *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:           "pdcli",
		Short:         "ProjectDesk CLI",
		Long:          "Client a riga di comando per il server ProjectDesk: progetti, import del piano, T0, riepilogo e ricerca.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&server, "server", config.LoadEnv().ServerURL, "indirizzo del server (http://host:port)")

	client := func() api.Client { return newClient(server) }
	root.AddCommand(
		newVersionCmd(),
		newProjectsCmd(client),
		newImportCmd(client),
		newT0Cmd(client),
		newSummaryCmd(client),
		newSearchCmd(client),
	)
	return root
}

// Execute запускает команду и возвращает код выхода процесса.
func Execute(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	name := root.Name()
	if cmd != nil {
		name = cmd.Name()
	}
	fmt.Fprintf(root.ErrOrStderr(), "%s error: %v\n", name, err)
	return 1
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra la versione",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pdcli %s (built: %s)\n", Version, BuildDate)
		},
	}
}

// day сокращает дату из ответа API (RFC 3339) до YYYY-MM-DD.
func day(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	if len(*s) >= 10 {
		return (*s)[:10]
	}
	return *s
}
