package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/autoneg/internal/utils"
	"github.com/sw33tLie/autoneg/pkg/metrics"
	"github.com/sw33tLie/autoneg/pkg/notify"
	"github.com/sw33tLie/autoneg/pkg/platforms"
	"github.com/sw33tLie/autoneg/pkg/platforms/adsapi"
	"github.com/sw33tLie/autoneg/pkg/runner"
	"github.com/sw33tLie/autoneg/pkg/sheets"
	"github.com/sw33tLie/autoneg/pkg/storage"
)

// runCmd implements: autoneg run
//
//	--sheets string            Directory with the settings sheets (*.csv)
//	--dbpath string            Path to SQLite DB file
//	--dry-run                  Print the changes without applying them
//	--campaign-types string    Campaign types to search, in order
//	--campaign-level-keywords  Add negatives to campaigns instead of ad groups
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Add and remove negative keywords for every sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'autoneg run --help'", args[0])
		}

		sheetsDir := viper.GetString("run.sheets_dir")
		if sheetsDir == "" {
			return fmt.Errorf("no sheets directory configured. Use --sheets or set run.sheets_dir in ~/.autoneg.yaml")
		}
		loaded, err := sheets.LoadDir(sheetsDir)
		if err != nil {
			return err
		}
		if len(loaded) == 0 {
			utils.Log.Infof("No sheets found in %s", sheetsDir)
			return nil
		}

		campaignTypes, err := parseCampaignTypes(viper.GetStringSlice("run.campaign_types"))
		if err != nil {
			return err
		}

		proxy, _ := cmd.Flags().GetString("proxy")
		platform, err := newAdsPlatform(cmd.Context(), proxy)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			utils.Log.Info("Dry run: no changes will be made to the account.")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rec := metrics.NewRecorder()
		res, err := runner.Run(ctx, runner.Config{
			Platform:              platform,
			Sheets:                loaded,
			DB:                    db,
			CampaignTypes:         campaignTypes,
			CampaignLevelKeywords: viper.GetBool("run.campaign_level_keywords"),
			RemovalMatchType:      viper.GetString("run.removal_match_type"),
			DryRun:                dryRun,
			Metrics:               rec,
			Log:                   utils.Log,
			OnPassDone:            func(pr runner.PassResult) { printPass(os.Stdout, pr) },
		})
		if err != nil {
			return err
		}

		fmt.Printf("\n%d passes processed, %d skipped, %d failed. %d negative keywords added, %d removed.\n",
			res.Processed(), res.Skipped, res.Failed(), res.Added(), res.Removed())

		if err := rec.WriteTextfile(viper.GetString("metrics.textfile")); err != nil {
			utils.Log.Warnf("Could not write metrics: %v", err)
		}
		if err := notify.EmailResult(res, emailConfig()); err != nil {
			utils.Log.Errorf("Email error: %v", err)
		}

		if len(res.Errors) > 0 {
			return fmt.Errorf("%d errors during the run", len(res.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("sheets", "", "Directory with the settings sheets exported as CSV")
	runCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/autoneg/autoneg.sqlite)")
	runCmd.Flags().Bool("dry-run", false, "Print the changes without applying them")
	runCmd.Flags().String("campaign-types", "", "Comma-separated campaign types to search (default: Shopping,Text)")
	runCmd.Flags().Bool("campaign-level-keywords", false, "Add negative keywords to the campaign when a sheet uses campaign level queries")

	viper.BindPFlag("run.sheets_dir", runCmd.Flags().Lookup("sheets"))
	viper.BindPFlag("run.campaign_types", runCmd.Flags().Lookup("campaign-types"))
	viper.BindPFlag("run.campaign_level_keywords", runCmd.Flags().Lookup("campaign-level-keywords"))
}

func newAdsPlatform(ctx context.Context, proxy string) (platforms.Platform, error) {
	client, err := adsapi.New(adsapi.Config{
		Endpoint:          viper.GetString("ads.endpoint"),
		RequestsPerSecond: viper.GetFloat64("ads.requests_per_second"),
		Retries:           viper.GetInt("ads.retries"),
	})
	if err != nil {
		return nil, err
	}
	authCfg := platforms.AuthConfig{
		Token:      viper.GetString("ads.token"),
		CustomerID: viper.GetString("ads.customer_id"),
		Proxy:      proxy,
	}
	if err := client.Authenticate(ctx, authCfg); err != nil {
		return nil, fmt.Errorf("ads api auth failed: %w", err)
	}
	return client, nil
}

// parseCampaignTypes accepts list entries as well as comma-separated values.
func parseCampaignTypes(values []string) ([]platforms.CampaignType, error) {
	var out []platforms.CampaignType
	for _, v := range values {
		for _, name := range utils.SplitList(v) {
			ct, err := platforms.ParseCampaignType(name)
			if err != nil {
				return nil, err
			}
			out = append(out, ct)
		}
	}
	if len(out) == 0 {
		return platforms.DefaultCampaignTypes, nil
	}
	return out, nil
}

func emailConfig() notify.EmailConfig {
	return notify.EmailConfig{
		Enabled:    viper.GetBool("email.enabled"),
		SMTPServer: viper.GetString("email.smtp_server"),
		SMTPPort:   viper.GetInt("email.smtp_port"),
		SMTPUser:   viper.GetString("email.smtp_user"),
		SMTPPass:   viper.GetString("email.smtp_pass"),
		FromEmail:  viper.GetString("email.from"),
		ToEmail:    viper.GetString("email.to"),
	}
}

// printPass prints the changes applied by a pass. A failed pass may still
// have applied some of them before the error.
func printPass(w io.Writer, pr runner.PassResult) {
	for _, rm := range pr.Removed {
		fmt.Fprintf(w, "- %s  %s\n", pr.Lookup, rm.Negative.Text)
	}
	for _, a := range pr.Added {
		fmt.Fprintf(w, "+ %s  %s\n", pr.Lookup, a)
	}
	if pr.Err != nil {
		fmt.Fprintf(w, "! %s  %v\n", pr.Lookup, pr.Err)
	}
}

// resolveDBPath prefers the --dbpath flag over db.path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("db.path")
	}
	return utils.GetAbsDBPath(dbPath)
}
