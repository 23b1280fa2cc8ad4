package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/autoneg/pkg/keywords"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [terms...]",
	Short: "Print terms encoded as negative keywords of a match type",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchType, _ := cmd.Flags().GetString("type")
		return encodeTerms(os.Stdout, matchType, args)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("type", "t", "Exact", "Match type: Broad, BMM, Phrase or Exact")
}

func encodeTerms(w io.Writer, matchType string, terms []string) error {
	mt, err := keywords.ParseMatchType(matchType)
	if err != nil {
		return err
	}
	for _, term := range terms {
		fmt.Fprintln(w, mt.Encode(term))
	}
	return nil
}
