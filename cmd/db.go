package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/autoneg/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the autoneg database",
}

// openExistingDB opens the database without creating it.
func openExistingDB(cmd *cobra.Command) (*storage.DB, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", dbPath)
	}
	return storage.Open(dbPath)
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, dbPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// historyCmd prints the change log.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent negative keyword changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		campaign, _ := cmd.Flags().GetString("campaign")
		runID, _ := cmd.Flags().GetString("run")
		since, _ := cmd.Flags().GetString("since")

		opts := storage.ListOptions{Campaign: campaign, RunID: runID, Limit: limit}
		if since != "" {
			t, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = t
		}

		db, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		changes, err := db.ListRecentChanges(context.Background(), opts)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Local().Format("2006-01-02 15:04:05")
			where := c.Campaign
			if c.AdGroup != "" {
				where += " > " + c.AdGroup
			}
			fmt.Printf("%s  %-8s  %s (%s)  %s", ts, c.ChangeType, where, c.CampaignType, c.Keyword)
			if c.Detail != "" {
				fmt.Printf("  %s", c.Detail)
			}
			fmt.Println()
		}
		return nil
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the negative keyword changes per campaign.",
	Long:  "Prints statistics about the negative keyword changes per campaign.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "CAMPAIGN\tADDED\tREMOVED\tCONFLICTS\t")

		var totalAdded, totalRemoved, totalConflicts int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", s.Campaign, s.Added, s.Removed, s.Conflicts)
			totalAdded += s.Added
			totalRemoved += s.Removed
			totalConflicts += s.Conflicts
		}

		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t\n", totalAdded, totalRemoved, totalConflicts)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(historyCmd)
	dbCmd.AddCommand(statsCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: db.path or ~/.config/autoneg/autoneg.sqlite)")

	historyCmd.Flags().Int("limit", 50, "Number of recent changes to show")
	historyCmd.Flags().String("campaign", "", "Only show changes of this campaign")
	historyCmd.Flags().String("run", "", "Only show changes of this run ID")
	historyCmd.Flags().String("since", "", "Only show changes since this RFC3339 timestamp")
}
