// Package download saves photos to disk and reports completed downloads back to the
// service.
//
// Every request gets a unique ID whose metadata (photo ID, target file) is persisted
// before the transfer starts. The completion handler resolves the photo from that
// metadata, so photo IDs never have to be recovered from file names.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/event"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/store"
)

// Records persists download request metadata. *store.Store implements it.
type Records interface {
	CreateDownload(ctx context.Context, rec store.DownloadRecord) error
	Download(ctx context.Context, requestID string) (store.DownloadRecord, error)
	FinishDownload(ctx context.Context, requestID string, status store.DownloadStatus, reason string) error
	MarkTracked(ctx context.Context, requestID string) error
}

// Request identifies an accepted download.
type Request struct {
	ID       string
	PhotoID  string
	FileName string
	Path     string
}

// Completion is emitted once per request when its transfer ends.
type Completion struct {
	RequestID string
	FileName  string
	Path      string
	Bytes     int64
	Err       error // nil on success
}

// Manager runs downloads with bounded concurrency.
type Manager struct {
	dir     string
	quality domain.PhotoQuality
	records Records
	http    *http.Client
	scope   context.Context

	group       errgroup.Group
	completions *event.Channel[Completion]
	newID       func() string

	mu      sync.Mutex
	pending int
}

// Options configures a Manager.
type Options struct {
	Dir         string
	Quality     domain.PhotoQuality
	Concurrency int
	HTTPClient  *http.Client
}

// NewManager creates a manager. Transfers run in scope, which should outlive any UI.
func NewManager(scope context.Context, records Records, opts Options) *Manager {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Quality == "" {
		opts.Quality = domain.QualityRegular
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	m := &Manager{
		dir:         opts.Dir,
		quality:     opts.Quality,
		records:     records,
		http:        opts.HTTPClient,
		scope:       scope,
		completions: event.New[Completion](0),
		newID:       uuid.NewString,
	}
	m.group.SetLimit(opts.Concurrency)
	return m
}

// Completions is the channel completion events are delivered on.
func (m *Manager) Completions() *event.Channel[Completion] {
	return m.completions
}

// Pending returns the number of requests not yet completed.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Enqueue records a request for photo and schedules its transfer. It blocks while the
// concurrency limit is reached.
func (m *Manager) Enqueue(ctx context.Context, photo domain.Photo) (Request, error) {
	if photo.ID == "" {
		return Request{}, errors.New("photo has no id")
	}
	src := photo.URLs.URLFor(m.quality)
	if src == "" {
		return Request{}, fmt.Errorf("photo %s has no %s rendition", photo.ID, m.quality)
	}

	name := FileName(photo)
	req := Request{
		ID:       m.newID(),
		PhotoID:  photo.ID,
		FileName: name,
		Path:     filepath.Join(m.dir, name),
	}
	if err := m.records.CreateDownload(ctx, store.DownloadRecord{
		RequestID: req.ID,
		PhotoID:   req.PhotoID,
		FileName:  req.FileName,
		Path:      req.Path,
		URL:       src,
	}); err != nil {
		return Request{}, fmt.Errorf("failed to record download: %w", err)
	}

	m.mu.Lock()
	m.pending++
	m.mu.Unlock()

	logging.Info("download queued", "request", req.ID, "photo", req.PhotoID, "path", req.Path)
	m.group.Go(func() error {
		m.run(req, src)
		return nil
	})
	return req, nil
}

// Wait blocks until every scheduled transfer has finished.
func (m *Manager) Wait() {
	_ = m.group.Wait()
}

func (m *Manager) run(req Request, src string) {
	n, err := m.fetch(req, src)

	status, reason := store.DownloadCompleted, ""
	if err != nil {
		status, reason = store.DownloadFailed, err.Error()
		logging.Warn("download failed", "request", req.ID, "photo", req.PhotoID, "err", err)
	}
	if ferr := m.records.FinishDownload(m.scope, req.ID, status, reason); ferr != nil {
		logging.Error("failed to update download record", "request", req.ID, "err", ferr)
	}

	m.mu.Lock()
	m.pending--
	m.mu.Unlock()

	c := Completion{RequestID: req.ID, FileName: req.FileName, Path: req.Path, Bytes: n, Err: err}
	if eerr := m.completions.Emit(m.scope, c); eerr != nil {
		logging.Warn("completion dropped at shutdown", "request", req.ID, "err", eerr)
	}
}

// fetch streams src into a temporary file and renames it into place.
func (m *Manager) fetch(req Request, src string) (int64, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create download dir: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(m.scope, http.MethodGet, src, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := m.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(m.dir, "."+req.ID+"-*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return n, fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), req.Path); err != nil {
		os.Remove(tmp.Name())
		return n, fmt.Errorf("move file into place: %w", err)
	}
	return n, nil
}

var unsafeSlug = regexp.MustCompile(`[^a-z0-9-]+`)

// FileName returns "<photoID>_<slug>.jpg" for photo. The slug falls back to "photo".
func FileName(photo domain.Photo) string {
	slug := strings.ToLower(photo.Slug)
	// Slugs usually end with the photo ID; drop it to avoid repeating it.
	slug = strings.TrimSuffix(slug, "-"+strings.ToLower(photo.ID))
	slug = strings.Trim(unsafeSlug.ReplaceAllString(slug, "-"), "-")
	if slug == "" {
		slug = "photo"
	}
	id := strings.NewReplacer("/", "", string(os.PathSeparator), "").Replace(photo.ID)
	return id + "_" + slug + ".jpg"
}
