package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/service/scoring"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Print the skill catalog",
	Long:  "Print the recognized skill keywords and the market weight and category of each scored skill.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := configFrom(cmd.Context())
		if err != nil {
			return err
		}
		catalog, err := config.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		return printSkills(cmd.OutOrStdout(), catalog)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
}

func printSkills(out io.Writer, catalog *config.Catalog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tWEIGHT\tCATEGORY")
	market := append(catalog.MarketSkills[:0:0], catalog.MarketSkills...)
	sort.SliceStable(market, func(i, j int) bool { return market[i].Weight > market[j].Weight })
	for _, s := range market {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Weight, s.Category)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	ceiling := scoring.New(catalog.MarketSkills, catalog.SkillKeywords).Ceiling()
	_, err := fmt.Fprintf(out, "\nscore ceiling: %d\nkeywords (%d): %s\n",
		ceiling, len(catalog.SkillKeywords), strings.Join(catalog.SkillKeywords, ", "))
	return err
}
