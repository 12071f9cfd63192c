package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/download"
	"github.com/androiddevnotesforks/walleria/internal/format"
	"github.com/androiddevnotesforks/walleria/internal/store"
)

func newDownloadCmd() *cobra.Command {
	var (
		dir     string
		quality string
	)
	cmd := &cobra.Command{
		Use:   "download <photo-id>...",
		Short: "Download photos by ID",
		Long: `Download photos by ID into downloads.dir.

Every completed download is reported to Unsplash, as its API guidelines require.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if dir != "" || quality != "" {
				opts := download.Options{
					Dir:         a.cfg.Downloads.Dir,
					Quality:     domain.PhotoQuality(a.cfg.Downloads.Quality),
					Concurrency: a.cfg.Downloads.Concurrency,
				}
				if dir != "" {
					opts.Dir = dir
				}
				if quality != "" {
					opts.Quality = domain.PhotoQuality(quality)
				}
				a.downloads = download.NewManager(a.scope, a.store, opts)
			}
			return runDownloads(cmd, a, args)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to save into (default downloads.dir)")
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Rendition: raw, full, regular, small or thumb (default downloads.quality)")
	cmd.AddCommand(newDownloadListCmd())
	return cmd
}

// runDownloads fetches photo metadata concurrently, queues every photo and prints
// each completion as it arrives.
func runDownloads(cmd *cobra.Command, a *app, ids []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	photos := make([]domain.Photo, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			p, err := a.client.GetPhoto(gctx, id)
			if err != nil {
				return fmt.Errorf("photo %s: %w", id, err)
			}
			photos[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Print completions as they arrive; reporting happens in the app scope.
	results := make(chan download.Completion, len(photos))
	observeCtx, stopObserving := context.WithCancel(a.scope)
	defer stopObserving()
	go func() {
		_ = a.downloads.Completions().Observe(observeCtx, func(c download.Completion) {
			a.receiver.Handle(c)
			results <- c
		})
	}()

	queued := 0
	for _, p := range photos {
		req, err := a.downloads.Enqueue(ctx, p)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", p.ID, err)
			continue
		}
		fmt.Fprintf(out, "Downloading %s -> %s\n", p.ID, req.Path)
		queued++
	}

	failed := 0
	for range queued {
		c := <-results
		if c.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", c.FileName, c.Err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%s)\n", c.Path, format.Bytes(c.Bytes))
	}
	a.receiver.Wait()

	if failed > 0 || queued < len(photos) {
		return fmt.Errorf("%d of %d downloads failed", failed+len(photos)-queued, len(photos))
	}
	return nil
}

func newDownloadListCmd() *cobra.Command {
	var (
		limit  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.store.ListDownloads(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, downloadTable(recs))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of downloads to list")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	return cmd
}

type downloadRecord struct {
	RequestID string `json:"request_id" yaml:"request_id"`
	PhotoID   string `json:"photo_id" yaml:"photo_id"`
	Path      string `json:"path" yaml:"path"`
	Status    string `json:"status" yaml:"status"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	Tracked   bool   `json:"tracked" yaml:"tracked"`
}

func downloadTable(recs []store.DownloadRecord) table {
	t := table{header: []string{"PHOTO", "STATUS", "TRACKED", "QUEUED", "PATH"}}
	records := make([]downloadRecord, len(recs))
	for i, r := range recs {
		records[i] = downloadRecord{
			RequestID: r.RequestID,
			PhotoID:   r.PhotoID,
			Path:      r.Path,
			Status:    string(r.Status),
			Error:     r.Error,
			Tracked:   r.Tracked,
		}
		tracked := "no"
		if r.Tracked {
			tracked = "yes"
		}
		t.rows = append(t.rows, []string{r.PhotoID, string(r.Status), tracked, format.Since(r.CreatedAt), r.Path})
	}
	t.records = records
	return t
}
