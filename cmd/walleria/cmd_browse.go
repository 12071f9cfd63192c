package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/format"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// runList opens the app, validates lf and prints the page fetch returns.
func runList(cmd *cobra.Command, lf *listFlags, fetch func(ctx context.Context, a *app) (table, error)) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := lf.validate(a.cfg.Search.PageSize); err != nil {
		return err
	}
	t, err := fetch(cmd.Context(), a)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), lf.output, t)
}

func parseListOrder(s string) (unsplash.ListOrder, error) {
	switch o := unsplash.ListOrder(strings.ToLower(s)); o {
	case unsplash.ListLatest, unsplash.ListOldest, unsplash.ListPopular:
		return o, nil
	}
	return "", fmt.Errorf("unknown order %q (want latest, oldest or popular)", s)
}

func newPhotosCmd() *cobra.Command {
	var (
		lf    listFlags
		order string
	)
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List the editorial photo feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := parseListOrder(order)
			if err != nil {
				return err
			}
			return runList(cmd, &lf, func(ctx context.Context, a *app) (table, error) {
				res, err := a.client.ListPhotos(ctx, lf.page, lf.perPage, o)
				if err != nil {
					return table{}, err
				}
				printSummary(cmd, res.Total, res.Page, res.TotalPages, lf.output)
				return photoTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&order, "order", string(unsplash.ListLatest), "Sort order: latest, oldest or popular")
	return cmd
}

func newPhotoCmd() *cobra.Command {
	var (
		output string
		open   bool
	)
	cmd := &cobra.Command{
		Use:   "photo <photo-id>",
		Short: "Show a photo's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.client.GetPhoto(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := showPhoto(cmd.OutOrStdout(), output, p); err != nil {
				return err
			}
			if open && p.HTMLURL != "" {
				return openURL(p.HTMLURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&open, "open", false, "Open the photo's page in the browser")
	return cmd
}

func newRandomCmd() *cobra.Command {
	var (
		output      string
		orientation string
	)
	cmd := &cobra.Command{
		Use:   "random [query...]",
		Short: "Show a random photo, optionally matching a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			o, err := domain.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.client.RandomPhoto(cmd.Context(), strings.Join(args, " "), o)
			if err != nil {
				return err
			}
			return showPhoto(cmd.OutOrStdout(), output, p)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	cmd.Flags().StringVar(&orientation, "orientation", "", "Orientation: landscape, portrait or squarish")
	return cmd
}

// showPhoto prints p as a detail block, or as a one-element list for json and yaml.
func showPhoto(w io.Writer, output string, p domain.Photo) error {
	if output != outputTable {
		return render(w, output, photoTable([]domain.Photo{p}))
	}
	fmt.Fprintf(w, "%s by @%s\n", p.ID, p.User.Username)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	for _, f := range []struct{ label, value string }{
		{"Size", format.Dimensions(p.Width, p.Height)},
		{"Likes", format.AbbreviateCount(p.Likes)},
		{"Downloads", format.AbbreviateCount(p.Downloads)},
		{"Location", p.Location},
		{"Tags", strings.Join(p.Tags, ", ")},
		{"Uploaded", format.Since(p.CreatedAt)},
		{"URL", p.HTMLURL},
	} {
		if f.value != "" {
			fmt.Fprintf(w, "  %-10s %s\n", f.label+":", f.value)
		}
	}
	return nil
}

func newCollectionsCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List featured collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &lf, func(ctx context.Context, a *app) (table, error) {
				res, err := a.client.ListCollections(ctx, lf.page, lf.perPage)
				if err != nil {
					return table{}, err
				}
				printSummary(cmd, res.Total, res.Page, res.TotalPages, lf.output)
				return collectionTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	return cmd
}

func newCollectionCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "collection <collection-id>",
		Short: "List the photos in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &lf, func(ctx context.Context, a *app) (table, error) {
				c, err := a.client.GetCollection(ctx, args[0])
				if err != nil {
					return table{}, err
				}
				if lf.output == outputTable {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s (%d photos)\n", c.Title, c.TotalPhotos)
				}
				res, err := a.client.CollectionPhotos(ctx, c.ID, lf.page, lf.perPage)
				if err != nil {
					return table{}, err
				}
				return photoTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	return cmd
}

func newTopicCmd() *cobra.Command {
	var (
		lf    listFlags
		order string
	)
	cmd := &cobra.Command{
		Use:   "topic <slug>",
		Short: "List the photos in a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := parseListOrder(order)
			if err != nil {
				return err
			}
			return runList(cmd, &lf, func(ctx context.Context, a *app) (table, error) {
				tp, err := a.client.GetTopic(ctx, args[0])
				if err != nil {
					return table{}, err
				}
				if lf.output == outputTable {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s, %d photos)\n", tp.Title, tp.Status, tp.TotalPhotos)
				}
				res, err := a.client.TopicPhotos(ctx, tp.Slug, lf.page, lf.perPage, o)
				if err != nil {
					return table{}, err
				}
				return photoTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&order, "order", string(unsplash.ListLatest), "Sort order: latest, oldest or popular")
	return cmd
}

func newUserCmd() *cobra.Command {
	var (
		lf          listFlags
		likes       bool
		collections bool
	)
	cmd := &cobra.Command{
		Use:   "user <username>",
		Short: "List a user's photos, likes or collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if likes && collections {
				return fmt.Errorf("--likes and --collections cannot be combined")
			}
			username := strings.TrimPrefix(args[0], "@")
			return runList(cmd, &lf, func(ctx context.Context, a *app) (table, error) {
				u, err := a.client.GetUser(ctx, username)
				if err != nil {
					return table{}, err
				}
				if lf.output == outputTable {
					fmt.Fprintf(cmd.ErrOrStderr(), "@%s: %d photos, %d likes, %d collections\n",
						u.Username, u.TotalPhotos, u.TotalLikes, u.TotalCollections)
				}
				switch {
				case collections:
					res, err := a.client.UserCollections(ctx, u.Username, lf.page, lf.perPage)
					if err != nil {
						return table{}, err
					}
					return collectionTable(res.Items), nil
				case likes:
					res, err := a.client.UserLikes(ctx, u.Username, lf.page, lf.perPage)
					if err != nil {
						return table{}, err
					}
					return photoTable(res.Items), nil
				}
				res, err := a.client.UserPhotos(ctx, u.Username, lf.page, lf.perPage)
				if err != nil {
					return table{}, err
				}
				return photoTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().BoolVar(&likes, "likes", false, "List the photos the user liked")
	cmd.Flags().BoolVar(&collections, "collections", false, "List the user's collections")
	return cmd
}
