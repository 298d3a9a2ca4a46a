package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/llm"
	"github.com/use-agent/listingkit/models"
	"github.com/use-agent/listingkit/pipeline"
	"github.com/use-agent/listingkit/scraper"
)

func newRunCmd(cfg func() *config.Config) *cobra.Command {
	var (
		titles bool
		mode   string
		in     llm.Input
	)

	cmd := &cobra.Command{
		Use:   "run <keyword...>",
		Short: "Search the listing site, then generate titles for the same keyword",
		Long: `Run searches the listing site and, with --titles, generates titles for the
keyword once the search has succeeded. The first failure stops the run.

Examples:
  listingctl run desk lamp
  listingctl run wireless earbuds --titles --mode single --brand AudioTech`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()

			m, err := llm.ParseMode(mode)
			if err != nil {
				return err
			}
			in.Keyword = strings.Join(args, " ")
			if in.Language == "" {
				in.Language = c.Generation.Language
			}

			var gen pipeline.Generator
			if titles {
				client := llm.NewClient(c.Generation, nil)
				// Fail before launching a browser whose results would be discarded.
				if !client.Ready() {
					return models.NewError(models.ErrCodeAuthConfig, "generation API key is not configured", nil)
				}
				gen = client
			}

			sc, err := scraper.NewScraper(c.Browser, c.Scraper, c.Site)
			if err != nil {
				return err
			}
			defer sc.Close()

			out, err := pipeline.New(sc, gen, nil).Run(cmd.Context(), pipeline.Job{
				Input:    in,
				Mode:     m,
				Scrape:   true,
				Generate: titles,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.ListingResponse{
				Success:  true,
				Products: out.Products,
				Count:    len(out.Products),
				Titles:   out.Titles,
			})
		},
	}

	f := cmd.Flags()
	f.BoolVar(&titles, "titles", false, "generate titles after the search")
	f.StringVar(&mode, "mode", "multi", `"multi" (five titles) or "single"`)
	f.StringVar(&in.Brand, "brand", "", "brand line for single mode")
	f.StringVar(&in.Category, "category", "", "category line for single mode")
	f.StringVar(&in.SellingPoints, "selling-points", "", "selling points line for single mode")
	f.StringVar(&in.Language, "language", "", "target language tag (default from config)")
	return cmd
}
