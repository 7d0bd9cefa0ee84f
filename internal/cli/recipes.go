package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/paprika/internal"
	"github.com/starford/paprika/internal/recipefile"
	"github.com/starford/paprika/internal/storage"
	"github.com/starford/paprika/internal/watch"
	"github.com/starford/paprika/pkg/paprika"
)

func recipesCmd() *cli.Command {
	return &cli.Command{
		Name:  "recipes",
		Usage: "List, fetch, export and upload recipes",
		Commands: []*cli.Command{
			recipesListCmd(),
			recipesGetCmd(),
			recipesExportCmd(),
			recipesPushCmd(),
		},
	}
}

func recipesListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recipe uids with their content hashes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: formatTable,
				Usage: "Output format (supported values: table, json, yaml)",
			},
			&cli.BoolFlag{
				Name:  "names",
				Usage: "Fetch every recipe to show its name (one request per recipe)",
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
			entries, err := app.Session.Recipes(ctx)
			if err != nil {
				return err
			}

			if !cmd.Bool("names") {
				if format != formatTable {
					return writeValue(stdout(cmd), format, entries)
				}
				rows := make([][]string, len(entries))
				for i, e := range entries {
					rows[i] = []string{e.UID, e.Hash}
				}
				return writeTable(stdout(cmd), []string{"UID", "HASH"}, rows)
			}

			recipes, err := app.Session.FetchAll(ctx, uidsOf(entries))
			if err != nil {
				return err
			}
			type named struct {
				UID  string `json:"uid" yaml:"uid"`
				Hash string `json:"hash" yaml:"hash"`
				Name string `json:"name" yaml:"name"`
			}
			out := make([]named, len(recipes))
			rows := make([][]string, len(recipes))
			for i, r := range recipes {
				out[i] = named{UID: entries[i].UID, Hash: entries[i].Hash, Name: r.Name}
				rows[i] = []string{out[i].UID, out[i].Hash, out[i].Name}
			}
			if format != formatTable {
				return writeValue(stdout(cmd), format, out)
			}
			return writeTable(stdout(cmd), []string{"UID", "HASH", "NAME"}, rows)
		},
	}
}

func recipesGetCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch one recipe",
		ArgsUsage: "<uid>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: string(recipefile.FormatMarkdown),
				Usage: "Document format (supported values: markdown, yaml, json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the document to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			uid := cmd.Args().First()
			if uid == "" {
				return errors.New("recipe uid is required")
			}
			format, err := recipefile.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			r, err := app.Session.Recipe(ctx, uid)
			if err != nil {
				return err
			}
			doc, err := recipefile.Render(r, format)
			if err != nil {
				return err
			}
			if path := cmd.String("output"); path != "" {
				return os.WriteFile(path, doc, 0o644)
			}
			_, err = stdout(cmd).Write(doc)
			return err
		},
	}
}

func recipesExportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Fetch every recipe in the account",
		Description: `Fetches all recipes concurrently (bounded by sync.concurrency).
Without --dir the recipes are written to stdout as one JSON or YAML list.

With --dir each recipe is kept in <dir>/<uid>.<ext>. Documents already in the
directory are compared by content hash and only new or changed recipes are
fetched and rewritten. --prune removes documents of recipes that no longer
exist in the account.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: formatJSON,
				Usage: "Output format (supported values: json, yaml; markdown with --dir)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Keep one document per recipe in this directory",
			},
			&cli.BoolFlag{
				Name:  "prune",
				Usage: "With --dir, delete documents of recipes removed from the account",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if root := cmd.String("dir"); root != "" {
				format, err := recipefile.ParseFormat(cmd.String("format"))
				if err != nil {
					return err
				}
				app, err := setup(cmd)
				if err != nil {
					return err
				}
				return exportDir(ctx, app, stdout(cmd), root, format, cmd.Bool("prune"))
			}

			format, err := parseOutputFormat(cmd.String("format"), formatJSON, formatYAML)
			if err != nil {
				return err
			}
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			entries, err := app.Session.Recipes(ctx)
			if err != nil {
				return err
			}
			recipes, err := app.Session.FetchAll(ctx, uidsOf(entries))
			if err != nil {
				return err
			}
			return writeValue(stdout(cmd), format, recipes)
		},
	}
}

// exportDir brings root up to date with the account and prints one line
// per written or deleted file.
func exportDir(ctx context.Context, app *internal.App, w io.Writer, root string, format recipefile.Format, prune bool) error {
	dir, err := storage.NewDir(root)
	if err != nil {
		return err
	}
	docs, err := dir.List()
	if err != nil {
		return err
	}

	known := make(map[string]string, len(docs))
	paths := make(map[string][]string, len(docs))
	for _, d := range docs {
		known[d.UID] = d.Hash
		paths[d.UID] = append(paths[d.UID], d.Path)
	}
	// A uid kept in several files is refetched so the copies collapse
	// into one document.
	for uid, ps := range paths {
		if len(ps) > 1 {
			known[uid] = ""
		}
	}

	res, err := app.Session.Pull(ctx, known)
	if err != nil {
		return err
	}

	for _, r := range res.Changed {
		doc, err := recipefile.Render(r, format)
		if err != nil {
			return err
		}
		name := r.UID + format.Extension()
		if err := dir.Write(name, doc); err != nil {
			return err
		}
		fmt.Fprintf(w, "updated\t%s\n", name)
		for _, p := range paths[r.UID] {
			if p == name {
				continue
			}
			if err := dir.Delete(p); err != nil {
				return err
			}
			fmt.Fprintf(w, "deleted\t%s\n", p)
		}
	}

	if prune {
		for _, uid := range res.Removed {
			for _, p := range paths[uid] {
				if err := dir.Delete(p); err != nil {
					return err
				}
				fmt.Fprintf(w, "deleted\t%s\n", p)
			}
		}
	}

	app.Logger.Info("export finished",
		slog.String("dir", dir.Root()),
		slog.Int("changed", len(res.Changed)),
		slog.Int("removed", len(res.Removed)))
	return nil
}

func recipesPushCmd() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Upload a recipe document (.json, .yaml, .yml or .md)",
		ArgsUsage: "<file>",
		Description: `Creates the recipe when the document has no uid, otherwise replaces it.
The uid and content hash of the uploaded recipe are printed.
With --watch the document is uploaded again on every save until interrupted;
a uid assigned by the first upload is reused for later saves.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep watching the file and upload it on every change",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("recipe file is required")
			}
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			w := stdout(cmd)

			if cmd.Bool("watch") {
				return watch.File(ctx, path, app.Session, app.Logger, func(r *paprika.Recipe, err error) {
					if err == nil {
						fmt.Fprintf(w, "%s\t%s\n", r.UID, r.Hash)
					}
				})
			}

			r, err := recipefile.ReadFile(path)
			if err != nil {
				return err
			}
			if err := app.Session.Upload(ctx, r); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "%s\t%s\n", r.UID, r.Hash)
			return err
		},
	}
}

func uidsOf(entries []paprika.RecipeEntry) []string {
	uids := make([]string, len(entries))
	for i, e := range entries {
		uids[i] = e.UID
	}
	return uids
}
