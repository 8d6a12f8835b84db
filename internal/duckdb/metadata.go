package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (fp FileFingerprint) modTime() string {
	return fp.ModTime.UTC().Format(time.RFC3339Nano)
}

// RecordSource stores the fingerprint of an exported file along with the
// number of records written for it, replacing any earlier entry.
func (s *Store) RecordSource(fp FileFingerprint, records int) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO source_files (path, size, mod_time, records)
		VALUES (?, ?, ?, ?)`, fp.Path, fp.Size, fp.modTime(), int64(records))
	if err != nil {
		return fmt.Errorf("record source %s: %w", fp.Path, err)
	}
	return nil
}

// SourceCurrent reports whether fp matches the stored fingerprint for its
// path, meaning the export is up to date.
func (s *Store) SourceCurrent(fp FileFingerprint) (bool, error) {
	var size int64
	var modTime string
	err := s.db.QueryRow(`SELECT size, mod_time FROM source_files WHERE path=?`, fp.Path).
		Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query source %s: %w", fp.Path, err)
	}
	return size == fp.Size && modTime == fp.modTime(), nil
}
