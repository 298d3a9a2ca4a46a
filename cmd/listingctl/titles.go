package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/llm"
	"github.com/use-agent/listingkit/models"
	"github.com/use-agent/listingkit/pipeline"
)

func newTitlesCmd(cfg func() *config.Config) *cobra.Command {
	var (
		mode string
		in   llm.Input
	)

	cmd := &cobra.Command{
		Use:   "titles <keyword...>",
		Short: "Generate product titles for a keyword",
		Long: `Titles asks the generation endpoint for five titles (multi mode) or one
title built from the keyword and optional product details (single mode).

Examples:
  listingctl titles tech gadgets
  listingctl titles wireless earbuds --mode single --brand AudioTech --category Electronics`,
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

			gen := llm.NewClient(c.Generation, nil)
			titles, err := pipeline.New(nil, gen, nil).Generate(cmd.Context(), m, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.GenerateResponse{Success: true, Titles: titles})
		},
	}

	f := cmd.Flags()
	f.StringVar(&mode, "mode", "multi", `"multi" (five titles) or "single"`)
	f.StringVar(&in.Brand, "brand", "", "brand line for single mode")
	f.StringVar(&in.Category, "category", "", "category line for single mode")
	f.StringVar(&in.SellingPoints, "selling-points", "", "selling points line for single mode")
	f.StringVar(&in.Language, "language", "", "target language tag (default from config)")
	return cmd
}
