// catalog-cli queries the product catalog from the command line.
//
// Usage:
//
//	catalog-cli categories
//	catalog-cli products --middle 정수기 --sub 직수
//	catalog-cli groups --middle 정수기
//	catalog-cli select --id WP-1 --contract 36 --service-type 방문 --service-cycle 3 --promo-type 일반
//	catalog-cli detail --middle 정수기 --id WP-1 > WP-1.html
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bobmcallan/catalog/internal/app"
	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/models"
	"github.com/bobmcallan/catalog/internal/services/catalog"
)

func main() {
	cliApp := &cli.App{
		Name:    "catalog-cli",
		Usage:   "Query the rental product catalog",
		Version: fmt.Sprintf("%s (build: %s, commit: %s)", common.GetVersion(), common.GetBuild(), common.GetGitCommit()),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to catalog.toml",
				EnvVars: []string{"CATALOG_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
		},

		Before: func(c *cli.Context) error {
			common.LoadDotEnv()
			return nil
		},

		Commands: []*cli.Command{
			sheetsCommand(),
			categoriesCommand(),
			productsCommand(),
			groupsCommand(),
			selectCommand(),
			detailCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp initializes the shared App for one command and closes it afterwards.
func withApp(c *cli.Context, fn func(*app.App) error) error {
	a, err := app.NewApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "sheet", Usage: "Sheet to read (defaults to --middle, then the configured default)"},
		&cli.StringFlag{Name: "middle", Aliases: []string{"m"}, Usage: "Middle category"},
		&cli.StringFlag{Name: "sub", Aliases: []string{"s"}, Usage: "Sub category"},
		&cli.StringFlag{Name: "id", Usage: "Model code or same-model key"},
	}
}

func sheetFlag(c *cli.Context) string {
	if sheet := c.String("sheet"); sheet != "" {
		return sheet
	}
	return c.String("middle")
}

func filterFromFlags(c *cli.Context) models.Filter {
	return models.Filter{Middle: c.String("middle"), Sub: c.String("sub"), ID: c.String("id")}
}

func sheetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sheets",
		Usage: "List the sheets of the catalog source",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				names, err := a.SheetReader.ListSheets(c.Context)
				if err != nil {
					return err
				}
				return render(c, names, func(w io.Writer) { writeLines(w, names) })
			})
		},
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List middle and sub categories across all sheets",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				pairs, err := a.CatalogService.Categories(c.Context)
				if err != nil {
					return err
				}
				tree := catalog.CategoryTree(pairs)
				return render(c, tree, func(w io.Writer) { writeCategoryTree(w, tree) })
			})
		},
	}
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "List product rows of a sheet",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				records, err := a.CatalogService.Products(c.Context, sheetFlag(c), filterFromFlags(c))
				if err != nil {
					return err
				}
				return render(c, records, func(w io.Writer) { writeRecords(w, records) })
			})
		},
	}
}

func groupsCommand() *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "List model groups with their lowest prices",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				groups, err := a.CatalogService.Groups(c.Context, sheetFlag(c), filterFromFlags(c))
				if err != nil {
					return err
				}
				return render(c, groups, func(w io.Writer) { writeGroups(w, groups) })
			})
		},
	}
}

func selectCommand() *cli.Command {
	return &cli.Command{
		Name:  "select",
		Usage: "Resolve options and price for one product",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sheet", Usage: "Sheet to read"},
			&cli.StringFlag{Name: "middle", Aliases: []string{"m"}, Usage: "Middle category (used as the sheet)"},
			&cli.StringFlag{Name: "id", Usage: "Model code or same-model key", Required: true},
			&cli.StringFlag{Name: "contract", Usage: "Contract length in months"},
			&cli.StringFlag{Name: "service-type", Usage: "Service type"},
			&cli.StringFlag{Name: "service-cycle", Usage: "Service cycle in months"},
			&cli.StringFlag{Name: "promo-type", Usage: "Promotion type"},
			&cli.StringFlag{Name: "promo-name", Usage: "Promotion name"},
		},
		Action: func(c *cli.Context) error {
			sel := models.Selection{
				Contract:     c.String("contract"),
				ServiceType:  c.String("service-type"),
				ServiceCycle: c.String("service-cycle"),
				PromoType:    c.String("promo-type"),
				PromoName:    c.String("promo-name"),
			}
			return withApp(c, func(a *app.App) error {
				result, err := a.CatalogService.Select(c.Context, sheetFlag(c), c.String("id"), sel)
				if err != nil {
					return err
				}
				return render(c, result, func(w io.Writer) { writeSelection(w, result) })
			})
		},
	}
}

func detailCommand() *cli.Command {
	return &cli.Command{
		Name:  "detail",
		Usage: "Download the detail document of a product",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "middle", Aliases: []string{"m"}, Usage: "Middle category", Required: true},
			&cli.StringFlag{Name: "id", Usage: "Model code", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				body, err := a.DetailService.Resolve(c.Context, c.String("middle"), c.String("id"))
				if err != nil {
					return err
				}
				defer body.Close()

				var w io.Writer = c.App.Writer
				if path := c.String("out"); path != "" {
					f, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", path, err)
					}
					defer f.Close()
					w = f
				}
				_, err = io.Copy(w, body)
				return err
			})
		},
	}
}
