package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nao1215/xmldecode/internal/config"
	"github.com/nao1215/xmldecode/internal/database"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse documents saved with decode --save",
		Long: `History lists and shows the jobs saved to the history database by
"xmldecode decode --save" (or "history: true" in the configuration file).

The database lives in the XDG data directory (~/.local/share/xmldecode on Linux).

Examples:
  xmldecode history list
  xmldecode history show 3f1c2a9e-...
  xmldecode history show -f json 3f1c2a9e-...
  xmldecode history delete 3f1c2a9e-...
  xmldecode history diff 3f1c2a9e-... 8b0d44e1-...`,
	}

	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryDiffCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	cmd.Flags().IntP("limit", "n", database.DefaultListLimit, "Maximum number of runs to list")
	cmd.Flags().String("digest", "", "Only list runs of the document with this SHA3-256 digest")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	cmd.Flags().StringP("format", "f", config.FormatPretty,
		"Output format: xml, json, markdown or pretty")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
}

// openHistory opens the existing history database of cmd.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	dir := stringFlag(cmd, "db-dir")
	if dir == "" {
		dir = config.XDGDataDir()
	}
	return database.Open(dir, database.Options{CreateIfNotExists: false, EnableWAL: true})
}

// runHistoryListCmd executes the history list command.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	setupLogger(cmd)

	db, err := openHistory(cmd)
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	digest, err := cmd.Flags().GetString("digest")
	if err != nil {
		return err
	}

	var runs []database.RunSummary
	if digest != "" {
		runs, err = db.FindByDigest(cmd.Context(), digest)
	} else {
		runs, err = db.ListRuns(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	return writeRunTable(cmd.OutOrStdout(), runs)
}

// writeRunTable writes runs as a bordered table.
func writeRunTable(w io.Writer, runs []database.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No saved runs.")
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		embedded := "no"
		if run.Embedded {
			embedded = "yes"
		}
		rows = append(rows, []string{
			run.ID,
			run.Timestamp.Local().Format(time.DateTime),
			displaySource(run.Source),
			run.TagName,
			strconv.Itoa(run.ResultCount),
			strconv.Itoa(run.Base64Count),
			embedded,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DATE", "SOURCE", "TAG", "MATCHES", "BASE64", "EMBEDDED").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// runHistoryShowCmd executes the history show command.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	setupLogger(cmd)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	cfg := config.NewConfig()
	cfg.Format = format
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w, err := newWriter(cfg, &buf, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := writeJobs(w, cfg, []*model.Job{run.Job}); err != nil && !errors.Is(err, report.ErrNoResults) {
		return err
	}

	_, err = io.Copy(cmd.OutOrStdout(), &buf)
	return err
}

// runHistoryDeleteCmd executes the history delete command.
func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	setupLogger(cmd)

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}

// openHistoryForWrite opens or creates the history database of cfg.
func openHistoryForWrite(cfg *config.Config) (*database.HistoryDB, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}
