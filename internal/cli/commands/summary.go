package commands

import (
	"ProjectDesk/internal/cli/api"
	"ProjectDesk/internal/cli/model"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

const snippetRunes = 60

func newSummaryCmd(client func() api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <projectId>",
		Short: "Mostra il riepilogo del progetto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client().Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func printSummary(out io.Writer, s *model.Summary) {
	a := s.Analytics
	fmt.Fprintf(out, "%s (T0: %s)\n", s.Project.Name, day(s.Project.T0Date))
	fmt.Fprintf(out, "Task: %d  scaduti: %d  in arrivo: %d  completati: %d  diario: %d\n",
		a.TotalTasks, a.OverdueCount, a.UpcomingCount, a.CompletedCount, a.TotalDiaryEntries)
	for _, c := range a.ByColumn {
		fmt.Fprintf(out, "  %s: %d\n", c.Name, c.Count)
	}
	printTasks(out, "Scaduti", s.Overdue)
	printTasks(out, "In arrivo", s.Upcoming)
	printPlan(out, "Fasi", s.Phases)
	printPlan(out, "Work package", s.WorkPackages)
}

func printTasks(out io.Writer, title string, tasks []model.SummaryTask) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, t := range tasks {
		fmt.Fprintf(out, "  %s  %s\n", day(t.DueDate), t.Title)
	}
}

func printPlan(out io.Writer, title string, items []model.PlanItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(out, "  %s  %s → %s\n", it.Name, day(it.StartDate), day(it.EndDate))
	}
}

func newSearchCmd(client func() api.Client) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Cerca nei task e nel diario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client().Search(cmd.Context(), args[0], projectID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Tasks) == 0 && len(res.Diary) == 0 {
				fmt.Fprintln(out, "Nessun risultato")
				return nil
			}
			for _, t := range res.Tasks {
				fmt.Fprintf(out, "task   %s  %s\n", t.ID, t.Title)
			}
			for _, d := range res.Diary {
				content := ""
				if d.Content != nil {
					content = snippet(*d.Content)
				}
				fmt.Fprintf(out, "diario %s  %s  %s\n", d.ID, day(&d.Date), content)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "limita la ricerca a un progetto")
	return cmd
}

// snippet — первая строка текста, не длиннее snippetRunes символов.
func snippet(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	if utf8.RuneCountInString(s) <= snippetRunes {
		return s
	}
	return string([]rune(s)[:snippetRunes]) + "…"
}
