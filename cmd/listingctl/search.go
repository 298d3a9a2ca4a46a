package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/models"
	"github.com/use-agent/listingkit/pipeline"
	"github.com/use-agent/listingkit/scraper"
)

// DefaultSearchKeyword is searched when no keyword is given.
const DefaultSearchKeyword = "tech gadgets"

func newSearchCmd(cfg func() *config.Config) *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "search [keyword...]",
		Short: "Search the listing site and print the first result page",
		Long: `Search drives a headless browser through the site's search box and prints
the products on the first result page as JSON.

Examples:
  listingctl search
  listingctl search wireless earbuds --snapshot ""`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if cmd.Flags().Changed("snapshot") {
				c.Scraper.SnapshotPath = snapshot
			}

			keyword := strings.Join(args, " ")
			if strings.TrimSpace(keyword) == "" {
				keyword = DefaultSearchKeyword
			}

			sc, err := scraper.NewScraper(c.Browser, c.Scraper, c.Site)
			if err != nil {
				return err
			}
			defer sc.Close()

			products, err := pipeline.New(sc, nil, nil).Search(cmd.Context(), keyword)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.SearchResponse{
				Success:  true,
				Products: products,
				Count:    len(products),
			})
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", `screenshot path for the result page ("" disables)`)
	return cmd
}
