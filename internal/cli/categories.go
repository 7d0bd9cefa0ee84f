package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/paprika/pkg/paprika"
)

func categoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List recipe categories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: formatTable,
				Usage: "Output format (supported values: table, json, yaml)",
			},
			&cli.BoolFlag{
				Name:  "tree",
				Usage: "Show categories nested under their parents",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd.String("format"), formatTable, formatJSON, formatYAML)
			if err != nil {
				return err
			}
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			cats, err := app.Session.Categories(ctx)
			if err != nil {
				return err
			}
			w := stdout(cmd)

			if cmd.Bool("tree") {
				roots := paprika.BuildCategoryTree(cats)
				if format != formatTable {
					return writeValue(w, format, roots)
				}
				for _, root := range roots {
					root.Walk(func(n *paprika.CategoryNode, depth int) {
						fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.Name)
					})
				}
				return nil
			}

			if format != formatTable {
				return writeValue(w, format, cats)
			}
			rows := make([][]string, len(cats))
			for i, c := range cats {
				parent := ""
				if c.ParentUID != nil {
					parent = *c.ParentUID
				}
				rows[i] = []string{c.UID, c.Name, fmt.Sprint(c.OrderFlag), parent}
			}
			return writeTable(w, []string{"UID", "NAME", "ORDER", "PARENT"}, rows)
		},
	}
}
