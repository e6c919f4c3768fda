package cmd

import (
	"fmt"

	"github.com/rustyeddy/indexchart/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the render journal",
	Long: `Query and display render records from the SQLite journal.

Subcommands:
  list   - List the most recent renders
  show   - Show a single render by ID

Examples:
  indexchart journal list -n 5
  indexchart journal show 01HV3K8Z5Q0W9N5Y7F3X2C1B0A`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent renders",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <render-id>",
	Short: "Show a single render",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./indexchart.sqlite", "path to SQLite journal DB")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of renders to list, 0 for all")
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListRenders(cmd.Context(), journalLimit)
	if err != nil {
		return fmt.Errorf("list renders: %w", err)
	}

	fmt.Println(journal.FormatRendersOrg(recs))
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRender(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get render: %w", err)
	}

	fmt.Println(journal.FormatRenderOrg(rec))
	return nil
}
