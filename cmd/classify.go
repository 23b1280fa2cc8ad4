package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/autoneg/pkg/keywords"
	"gopkg.in/yaml.v3"
)

// classifyCmd runs the engine on a pass record without touching an account.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the queries of a pass file and print the result",
	Long: `Classify reads a pass record from a YAML file:

  campaign: Shoes
  ad_group: Running
  match_threshold: 1
  match_type: Exact
  positive_keywords: [running shoes, trail]
  queries: [red running shoes, free socks]
  existing_negatives:
    - text: "[running shoes]"
    - text: "\"cheap\""
      list_name: Blocked

and prints the negative keywords to add and to remove.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		passFile, _ := cmd.Flags().GetString("pass")
		if passFile == "" {
			return fmt.Errorf("--pass is required")
		}
		output, _ := cmd.Flags().GetString("output")

		pass, err := loadPass(passFile)
		if err != nil {
			return err
		}
		res, err := keywords.Process(*pass)
		if err != nil {
			return err
		}
		return writeClassifyResult(os.Stdout, res, output)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().String("pass", "", "YAML file with the pass record")
	classifyCmd.Flags().StringP("output", "o", "text", "Output format: text or yaml")
}

func loadPass(path string) (*keywords.Pass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pass keywords.Pass
	if err := yaml.Unmarshal(data, &pass); err != nil {
		return nil, fmt.Errorf("parse pass file %s: %w", path, err)
	}
	for i, neg := range pass.ExistingNegatives {
		if neg.MatchType == "" {
			pass.ExistingNegatives[i].MatchType = keywords.PlatformMatchTypeOf(neg.Text)
		}
	}
	return &pass, nil
}

type removalOutput struct {
	Text      string `yaml:"text"`
	MatchType string `yaml:"match_type"`
	Positive  string `yaml:"positive_keyword"`
}

type classifyOutput struct {
	NegativesToAdd    []string        `yaml:"negatives_to_add"`
	NegativesToRemove []removalOutput `yaml:"negatives_to_remove"`
	Warnings          []string        `yaml:"warnings,omitempty"`
}

func writeClassifyResult(w io.Writer, res *keywords.Result, format string) error {
	switch format {
	case "yaml":
		out := classifyOutput{
			NegativesToAdd:    res.NegativesToAdd,
			NegativesToRemove: []removalOutput{},
			Warnings:          res.Warnings,
		}
		for _, r := range res.NegativesToRemove {
			out.NegativesToRemove = append(out.NegativesToRemove, removalOutput{r.Negative.Text, r.Negative.MatchType, r.Positive})
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		for _, n := range res.NegativesToAdd {
			fmt.Fprintf(w, "+ %s\n", n)
		}
		for _, r := range res.NegativesToRemove {
			fmt.Fprintf(w, "- %s (blocks '%s')\n", r.Negative.Text, r.Positive)
		}
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "! %s\n", warning)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or yaml)", format)
	}
}
