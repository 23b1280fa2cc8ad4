package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sw33tLie/autoneg/pkg/platforms"
	"github.com/sw33tLie/autoneg/pkg/platforms/memory"
	"github.com/sw33tLie/autoneg/pkg/runner"
	"github.com/sw33tLie/autoneg/pkg/sheets"
)

func main() {
	// Usage: go run *.go -sheets ./sheets
	// Queries are taken from a small in-memory account; swap memory.New() for
	// adsapi.New(...) to work against a real one.

	sheetsFlag := flag.String("sheets", "", "Directory with settings sheets exported as CSV")
	flag.Parse()

	if *sheetsFlag == "" {
		fmt.Println("Sheets directory is required. Please provide it using the -sheets flag.")
		return
	}

	loaded, err := sheets.LoadDir(*sheetsFlag)
	if err != nil {
		log.Fatal(err)
	}

	account := memory.New()
	for _, s := range loaded {
		for _, col := range s.Columns {
			account.AddCampaign(platforms.Shopping, s.Settings.CampaignName, col.AdGroup)
			account.AddQueries(
				memory.QueryRow{Campaign: s.Settings.CampaignName, AdGroup: col.AdGroup, Query: "free samples", Clicks: 10},
				memory.QueryRow{Campaign: s.Settings.CampaignName, AdGroup: col.AdGroup, Query: "how to repair", Clicks: 4},
			)
		}
	}

	res, err := runner.Run(context.Background(), runner.Config{
		Platform:      account,
		Sheets:        loaded,
		CampaignTypes: []platforms.CampaignType{platforms.Shopping},
		DryRun:        true,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range res.Passes {
		for _, neg := range p.Added {
			fmt.Println(p.Lookup, neg)
		}
	}
}
