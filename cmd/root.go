package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/autoneg/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	              _
	  __ _ _   _| |_ ___  _ __   ___  __ _
	 / _' | | | | __/ _ \| '_ \ / _ \/ _' |
	| (_| | |_| | || (_) | | | |  __/ (_| |
	 \__,_|\__,_|\__\___/|_| |_|\___|\__, |
	                                 |___/

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autoneg",
	Short: "Turns irrelevant search queries into negative keywords.",
	Long: LOGO + `autoneg reads positive keywords from your settings sheets, checks the search queries
that triggered your ads and adds the ones matching too few positive keywords as negative
keywords. Negative keywords that block a positive keyword are removed.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.autoneg.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: trace, debug, info, warn, error, fatal")
}

func setDefaults() {
	viper.SetDefault("ads.endpoint", "")
	viper.SetDefault("ads.token", "")
	viper.SetDefault("ads.customer_id", "")
	viper.SetDefault("ads.requests_per_second", 5)
	viper.SetDefault("ads.retries", 0)
	viper.SetDefault("run.sheets_dir", "")
	viper.SetDefault("run.campaign_types", "Shopping,Text")
	viper.SetDefault("run.campaign_level_keywords", false)
	viper.SetDefault("run.removal_match_type", "")
	viper.SetDefault("db.path", "")
	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.smtp_server", "")
	viper.SetDefault("email.smtp_port", 587)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_pass", "")
	viper.SetDefault("email.from", "")
	viper.SetDefault("email.to", "")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".autoneg")
		viper.SetConfigType("yaml")
	}

	// AUTONEG_ADS_TOKEN overrides ads.token, and so on.
	viper.SetEnvPrefix("autoneg")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".autoneg.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
