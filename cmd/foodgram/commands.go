package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"philcali.me/foodgram/internal/collection"
	"philcali.me/foodgram/internal/config"
	"philcali.me/foodgram/internal/data"
	"philcali.me/foodgram/internal/output"
)

type options struct {
	configFile  string
	metricsFile string
	page        int
	limit       int
	tags        []string
	favorited   bool
	inCart      bool
}

type toggleFunc func(ctx context.Context, c *collection.Controller, id int) (*data.Recipe, error)

func NewRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &options{}
	var app *App
	root := &cobra.Command{
		Use:           "foodgram",
		Short:         "Browse Foodgram recipes and manage favorites and the shopping cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if opts.limit <= 0 {
				opts.limit = cfg.PageSize
			}
			app, err = NewApp(cmd.Context(), cfg, errOut)
			return err
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "TOML config file")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write toggle metrics in text format to this file")
	flags.IntVar(&opts.page, "page", 1, "page of the recipe listing")
	flags.IntVar(&opts.limit, "limit", 0, "recipes per page (default from config)")
	flags.StringSliceVar(&opts.tags, "tag", nil, "tag slugs to filter by (default all)")
	flags.BoolVar(&opts.favorited, "favorited", false, "only list favorited recipes")
	flags.BoolVar(&opts.inCart, "in-cart", false, "only list recipes in the shopping cart")

	load := func(ctx context.Context) error {
		if err := app.LoadTags(ctx, opts.tags); err != nil {
			return fmt.Errorf("loading tags: %w", err)
		}
		return collection.LoadPage(ctx, app.Collection, app.Client, data.PageParams{
			Page:             opts.page,
			Limit:            opts.limit,
			IsFavorited:      opts.favorited,
			IsInShoppingCart: opts.inCart,
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List a page of recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd.Context()); err != nil {
				return err
			}
			return printRecipes(out, app.Collection)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "tags",
		Short: "List the available tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadTags(cmd.Context(), opts.tags); err != nil {
				return err
			}
			table := output.NewTable(out, "ID", "SLUG", "NAME", "SELECTED")
			for _, tag := range app.Collection.TagsValue() {
				table.AddRow(strconv.Itoa(tag.Id), tag.Slug, tag.Name, strconv.FormatBool(tag.Value))
			}
			return table.Render()
		},
	})

	toggles := []struct {
		use    string
		short  string
		toggle toggleFunc
	}{
		{"favorite", "Add recipes to favorites", func(ctx context.Context, c *collection.Controller, id int) (*data.Recipe, error) {
			return c.ToggleFavorite(ctx, id, true)
		}},
		{"unfavorite", "Remove recipes from favorites", func(ctx context.Context, c *collection.Controller, id int) (*data.Recipe, error) {
			return c.ToggleFavorite(ctx, id, false)
		}},
		{"cart", "Add recipes to the shopping cart", func(ctx context.Context, c *collection.Controller, id int) (*data.Recipe, error) {
			return c.AddToCart(ctx, id)
		}},
		{"uncart", "Remove recipes from the shopping cart", func(ctx context.Context, c *collection.Controller, id int) (*data.Recipe, error) {
			return c.ToggleCart(ctx, id, false, func(bool) {
				app.Logger.Debug().Int("recipeId", id).Msg("removed from cart")
			})
		}},
	}
	for _, t := range toggles {
		t := t
		root.AddCommand(&cobra.Command{
			Use:   t.use + " ID...",
			Short: t.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIds(args)
				if err != nil {
					return err
				}
				if err := load(cmd.Context()); err != nil {
					return err
				}
				return runToggles(cmd.Context(), app.Collection, ids, t.toggle, out)
			},
		})
	}

	// Failed commands skip cobra's post-run hooks, so teardown wraps RunE.
	for _, sub := range root.Commands() {
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if ferr := app.Finish(opts.metricsFile); err == nil {
					err = ferr
				}
			}()
			return run(cmd, args)
		}
	}
	return root
}

func parseIds(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid recipe id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// runToggles issues every toggle concurrently; failures were already surfaced
// by the controller so only the first one is returned.
func runToggles(ctx context.Context, c *collection.Controller, ids []int, toggle toggleFunc, out io.Writer) error {
	var group errgroup.Group
	for _, id := range ids {
		id := id
		group.Go(func() error {
			_, err := toggle(ctx, c, id)
			return err
		})
	}
	err := group.Wait()
	if perr := printRecipes(out, c); perr != nil {
		return perr
	}
	return err
}

func printRecipes(out io.Writer, c *collection.Controller) error {
	heading := color.New(color.Bold)
	heading.Fprintf(out, "Page %d, %d recipes total\n", c.Page(), c.Count())
	table := output.NewTable(out, "ID", "NAME", "MINUTES", "TAGS", "FAVORITE", "CART")
	for _, recipe := range c.Recipes() {
		slugs := make([]string, 0, len(recipe.Tags))
		for _, tag := range recipe.Tags {
			slugs = append(slugs, tag.Slug)
		}
		table.AddRow(
			strconv.Itoa(recipe.Id),
			recipe.Name,
			strconv.Itoa(recipe.CookingTime),
			strings.Join(slugs, ","),
			mark(recipe.IsFavorited),
			mark(recipe.InShoppingCart),
		)
	}
	return table.Render()
}

func mark(on bool) string {
	if on {
		return "*"
	}
	return "-"
}
