package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DownloadStatus is the lifecycle state of a download request.
type DownloadStatus string

const (
	DownloadPending   DownloadStatus = "pending"
	DownloadCompleted DownloadStatus = "completed"
	DownloadFailed    DownloadStatus = "failed"
)

// DownloadRecord is the metadata persisted for each download request.
type DownloadRecord struct {
	RequestID   string         // Unique per request
	PhotoID     string         // Photo the request was made for
	FileName    string         // Base name of the target file
	Path        string         // Absolute target path
	URL         string         // Source URL
	Status      DownloadStatus // Current state
	Error       string         // Failure reason when Status is DownloadFailed
	Tracked     bool           // The completion was reported to the service
	CreatedAt   time.Time
	CompletedAt time.Time // Zero until the request finishes
}

// CreateDownload records a new pending request.
func (s *Store) CreateDownload(ctx context.Context, rec DownloadRecord) error {
	if rec.Status == "" {
		rec.Status = DownloadPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (request_id, photo_id, file_name, path, url, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.PhotoID, rec.FileName, rec.Path, rec.URL, string(rec.Status), rec.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("request %s: %w", rec.RequestID, ErrDuplicateRequest)
		}
		return fmt.Errorf("failed to create download: %w", err)
	}
	return nil
}

// Download returns the record for requestID.
func (s *Store) Download(ctx context.Context, requestID string) (DownloadRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT request_id, photo_id, file_name, path, url, status, error, tracked, created_at, completed_at
		FROM downloads WHERE request_id = ?`, requestID)
	rec, err := scanDownload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DownloadRecord{}, fmt.Errorf("download %s: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return DownloadRecord{}, fmt.Errorf("failed to read download: %w", err)
	}
	return rec, nil
}

// FinishDownload marks a request completed or failed.
func (s *Store) FinishDownload(ctx context.Context, requestID string, status DownloadStatus, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE downloads SET status = ?, error = ?, completed_at = ? WHERE request_id = ?`,
		string(status), reason, s.now().Unix(), requestID)
	if err != nil {
		return fmt.Errorf("failed to update download: %w", err)
	}
	return requireAffected(res, requestID)
}

// MarkTracked records that the completion was reported to the service.
func (s *Store) MarkTracked(ctx context.Context, requestID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE downloads SET tracked = 1 WHERE request_id = ?`, requestID)
	if err != nil {
		return fmt.Errorf("failed to mark download tracked: %w", err)
	}
	return requireAffected(res, requestID)
}

// ListDownloads returns the most recent requests first.
func (s *Store) ListDownloads(ctx context.Context, limit int) ([]DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, photo_id, file_name, path, url, status, error, tracked, created_at, completed_at
		FROM downloads ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var out []DownloadRecord
	for rows.Next() {
		rec, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDownload(sc scanner) (DownloadRecord, error) {
	var (
		rec       DownloadRecord
		status    string
		tracked   int
		created   int64
		completed sql.NullInt64
	)
	if err := sc.Scan(&rec.RequestID, &rec.PhotoID, &rec.FileName, &rec.Path, &rec.URL,
		&status, &rec.Error, &tracked, &created, &completed); err != nil {
		return DownloadRecord{}, err
	}
	rec.Status = DownloadStatus(status)
	rec.Tracked = tracked != 0
	rec.CreatedAt = time.Unix(created, 0)
	if completed.Valid {
		rec.CompletedAt = time.Unix(completed.Int64, 0)
	}
	return rec, nil
}

func requireAffected(res sql.Result, requestID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("download %s: %w", requestID, ErrNotFound)
	}
	return nil
}
