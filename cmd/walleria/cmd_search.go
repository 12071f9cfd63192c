package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// listFlags are shared by every command that prints one page of results.
type listFlags struct {
	page    int
	perPage int
	output  string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", 0, "Results per page (default search.page_size)")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputTable, "Output format: table, json or yaml")
}

func (f *listFlags) validate(defaultPerPage int) error {
	if f.page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", f.page)
	}
	if f.perPage == 0 {
		f.perPage = defaultPerPage
	}
	if f.perPage < 1 || f.perPage > 30 {
		return fmt.Errorf("--per-page must be between 1 and 30, got %d", f.perPage)
	}
	return validateOutput(f.output)
}

// filterFlags hold the raw photo filter values.
type filterFlags struct {
	order         string
	contentFilter string
	color         string
	orientation   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.order, "order", string(domain.OrderRelevant), "Sort order: relevant or latest")
	cmd.Flags().StringVar(&f.contentFilter, "content-filter", string(domain.ContentLow), "Content safety: low or high")
	cmd.Flags().StringVar(&f.color, "color", "", "Color family, e.g. black_and_white, teal, blue")
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "Orientation: landscape, portrait or squarish")
}

func (f filterFlags) parse() (domain.SearchFilters, error) {
	var (
		out domain.SearchFilters
		err error
	)
	if out.Order, err = domain.ParseDisplayOrder(f.order); err != nil {
		return out, err
	}
	if out.ContentFilter, err = domain.ParseContentFilter(f.contentFilter); err != nil {
		return out, err
	}
	if out.Color, err = domain.ParsePhotoColor(f.color); err != nil {
		return out, err
	}
	if out.Orientation, err = domain.ParseOrientation(f.orientation); err != nil {
		return out, err
	}
	return out, nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search photos, collections and users",
	}
	cmd.AddCommand(newSearchPhotosCmd(), newSearchCollectionsCmd(), newSearchUsersCmd(), newSearchHistoryCmd())
	return cmd
}

// runSearch opens the app, records query in the search history and prints the page
// fetch returns.
func runSearch(cmd *cobra.Command, lf *listFlags, query string, fetch func(ctx context.Context, a *app) (table, error)) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := lf.validate(a.cfg.Search.PageSize); err != nil {
		return err
	}
	if err := a.store.AddRecentSearch(cmd.Context(), query); err != nil {
		logging.Warn("failed to record search", "query", query, "err", err)
	}

	t, err := fetch(cmd.Context(), a)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), lf.output, t)
}

func newSearchPhotosCmd() *cobra.Command {
	var (
		lf listFlags
		ff filterFlags
	)
	cmd := &cobra.Command{
		Use:   "photos <query>",
		Short: "Search photos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := ff.parse()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return runSearch(cmd, &lf, query, func(ctx context.Context, a *app) (table, error) {
				res, err := a.client.SearchPhotos(ctx, query, filters, lf.page, lf.perPage)
				if err != nil {
					return table{}, err
				}
				printSummary(cmd, res.Total, res.Page, res.TotalPages, lf.output)
				return photoTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	ff.register(cmd)
	return cmd
}

func newSearchCollectionsCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "collections <query>",
		Short: "Search collections",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, &lf, query, func(ctx context.Context, a *app) (table, error) {
				res, err := a.client.SearchCollections(ctx, query, lf.page, lf.perPage)
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

func newSearchUsersCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "users <query>",
		Short: "Search users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, &lf, query, func(ctx context.Context, a *app) (table, error) {
				res, err := a.client.SearchUsers(ctx, query, lf.page, lf.perPage)
				if err != nil {
					return table{}, err
				}
				printSummary(cmd, res.Total, res.Page, res.TotalPages, lf.output)
				return userTable(res.Items), nil
			})
		},
	}
	lf.register(cmd)
	return cmd
}

func newSearchHistoryCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if clearAll {
				if err := a.store.ClearRecentSearches(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared.")
				return nil
			}
			queries, err := a.store.RecentSearches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, q := range queries {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of searches to list")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget all recent searches")
	return cmd
}

func newTopicsCmd() *cobra.Command {
	var (
		lf    listFlags
		order string
	)
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List editorial topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := lf.validate(a.cfg.Search.PageSize); err != nil {
				return err
			}

			res, err := a.client.ListTopics(cmd.Context(), lf.page, lf.perPage, unsplash.TopicOrder(order))
			if err != nil {
				return err
			}
			printSummary(cmd, res.Total, res.Page, res.TotalPages, lf.output)
			return render(cmd.OutOrStdout(), lf.output, topicTable(res.Items))
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&order, "order", string(unsplash.TopicPosition), "Sort order: featured, latest, oldest or position")
	return cmd
}

// printSummary writes the result count to stderr so piped json and yaml stay clean.
func printSummary(cmd *cobra.Command, total, page, totalPages int, output string) {
	if output != outputTable || total == 0 {
		return
	}
	if totalPages > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d results, page %d of %d\n", total, page, totalPages)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d results, page %d\n", total, page)
}
