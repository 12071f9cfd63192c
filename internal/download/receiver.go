package download

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/androiddevnotesforks/walleria/internal/event"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/store"
)

// Tracker reports a completed download to the service.
type Tracker interface {
	TrackDownload(ctx context.Context, photoID string) (string, error)
}

// PhotoIDFromFileName recovers the photo ID from a legacy "<photoID>_<slug>" file name.
// IDs may contain "_" but slugs never do, so the ID ends at the last separator.
// It returns false when the name has no "_" separator or an empty ID part.
func PhotoIDFromFileName(name string) (string, bool) {
	i := strings.LastIndex(name, "_")
	if i <= 0 {
		return "", false
	}
	return name[:i], true
}

// Receiver handles download completions: successful downloads are reported to the
// service, failures are logged. Reporting runs in the process-wide scope, so it is
// not cut short when the UI that started the download goes away.
type Receiver struct {
	tracker Tracker
	records Records
	scope   context.Context
	wg      sync.WaitGroup
}

// NewReceiver creates a receiver whose reporting work runs in scope.
func NewReceiver(scope context.Context, tracker Tracker, records Records) *Receiver {
	return &Receiver{tracker: tracker, records: records, scope: scope}
}

// Run delivers completions from ch to Handle until ctx is done.
func (r *Receiver) Run(ctx context.Context, ch *event.Channel[Completion]) error {
	return ch.Observe(ctx, r.Handle)
}

// Handle processes one completion. It never panics on malformed input; a completion
// whose photo cannot be identified is logged and ignored.
func (r *Receiver) Handle(c Completion) {
	if c.Err != nil {
		logging.Warn("download did not complete", "request", c.RequestID, "file", c.FileName, "err", c.Err)
		return
	}

	photoID, ok := r.resolve(c)
	if !ok {
		logging.Warn("completed download has no identifiable photo", "request", c.RequestID, "file", c.FileName)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.tracker.TrackDownload(r.scope, photoID); err != nil {
			logging.Warn("failed to report download", "photo", photoID, "err", err)
			return
		}
		logging.Info("download reported", "photo", photoID, "request", c.RequestID)
		if c.RequestID == "" || r.records == nil {
			return
		}
		if err := r.records.MarkTracked(r.scope, c.RequestID); err != nil {
			logging.Warn("failed to mark download tracked", "request", c.RequestID, "err", err)
		}
	}()
}

// Drain handles the completions still buffered in ch and waits for their reporting.
// Call it once Run has returned.
func (r *Receiver) Drain(ctx context.Context, ch *event.Channel[Completion]) error {
	for ch.Pending() > 0 {
		c, err := ch.Next(ctx)
		if err != nil {
			return err
		}
		r.Handle(c)
	}
	r.Wait()
	return nil
}

// Wait blocks until all reporting started by Handle has finished.
func (r *Receiver) Wait() {
	r.wg.Wait()
}

// resolve finds the photo ID from request metadata, falling back to the file name
// for downloads made before requests carried metadata.
func (r *Receiver) resolve(c Completion) (string, bool) {
	if c.RequestID != "" && r.records != nil {
		rec, err := r.records.Download(r.scope, c.RequestID)
		switch {
		case err == nil && rec.PhotoID != "":
			return rec.PhotoID, true
		case err != nil && !errors.Is(err, store.ErrNotFound):
			logging.Warn("failed to read download record", "request", c.RequestID, "err", err)
		}
	}
	return PhotoIDFromFileName(c.FileName)
}
