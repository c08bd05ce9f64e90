package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/bobmcallan/catalog/internal/models"
	"github.com/bobmcallan/catalog/internal/services/catalog"
)

// render writes v as indented JSON or hands the writer to table.
func render(c *cli.Context, v interface{}, table func(io.Writer)) error {
	switch format := c.String("format"); format {
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "table", "":
		table(c.App.Writer)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func writeCategoryTree(w io.Writer, tree []models.CategoryNode) {
	for _, node := range tree {
		fmt.Fprintln(w, node.Middle)
		for _, sub := range node.Subs {
			fmt.Fprintf(w, "  %s\n", sub)
		}
	}
}

func writeRecords(w io.Writer, records []models.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tGROUP\tNAME\tCONTRACT\tSERVICE\tCYCLE\tPROMO\tFEE")
	for _, r := range records {
		promo := strings.TrimSpace(r.Get(models.ColPromoType))
		if name := r.Get(models.ColPromoName); name != "" {
			promo += " / " + name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ModelCode(),
			r.GroupKey(),
			r.ProductName(),
			catalog.FormatContract(r.Get(models.ColContract)),
			r.Get(models.ColServiceType),
			r.Get(models.ColServiceCycle),
			promo,
			formatWon(catalog.UsageFee(r)),
		)
	}
	tw.Flush()
}

func writeGroups(w io.Writer, groups []models.ModelGroup) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tNAME\tMODELS\tPLANS\tFROM\tBEST")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			g.Key,
			g.Name,
			strings.Join(g.ModelCodes, ","),
			len(g.Members),
			formatWon(g.MinUsageFee),
			formatWon(g.BestPrice),
		)
	}
	tw.Flush()
}

func writeSelection(w io.Writer, res *models.SelectionResult) {
	fmt.Fprintf(w, "%s (%s)\n", res.Name, res.GroupKey)

	contracts := make([]string, 0, len(res.Choices.Contracts))
	for _, c := range res.Choices.Contracts {
		contracts = append(contracts, res.ContractLabels[c])
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "contract\t%s\t[%s]\n", res.Selection.Contract, strings.Join(contracts, ", "))
	fmt.Fprintf(tw, "service type\t%s\t[%s]\n", res.Selection.ServiceType, strings.Join(res.Choices.ServiceTypes, ", "))
	fmt.Fprintf(tw, "service cycle\t%s\t[%s]\n", res.Selection.ServiceCycle, strings.Join(res.Choices.ServiceCycles, ", "))
	fmt.Fprintf(tw, "promotion type\t%s\t[%s]\n", res.Selection.PromoType, strings.Join(res.Choices.PromoTypes, ", "))
	fmt.Fprintf(tw, "promotion\t%s\t[%s]\n", res.Selection.PromoName, strings.Join(res.Choices.PromoNames, ", "))
	tw.Flush()

	if res.Price == nil {
		fmt.Fprintln(w, "price: select every option to resolve a plan")
		return
	}
	fmt.Fprintf(w, "monthly fee: %s\n", formatWon(res.Price.UsageFee))
	fmt.Fprintf(w, "best price:  %s\n", formatWon(res.Price.BestPrice))
	if res.PrepayAvailable {
		fmt.Fprintln(w, "prepay available")
	}
}

// formatWon renders an amount with thousands separators, e.g. 25000 -> "25,000원".
func formatWon(v int64) string {
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "원"
}
