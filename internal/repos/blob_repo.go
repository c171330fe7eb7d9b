package repos

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrVersionConflict is returned when a write carries a stale version token.
// Callers must reload the current state and retry; retrying with the same
// token will fail again.
var ErrVersionConflict = errors.New("version conflict: blob changed since last read")

// ListingsBlob is the blob key for the property collection CSV.
const ListingsBlob = "listings"

// BlobRepo stores whole-document blobs with optimistic concurrency. Each
// successful write mints a fresh opaque version token.
type BlobRepo struct{ DB *sqlx.DB }

func NewBlobRepo(db *sqlx.DB) *BlobRepo { return &BlobRepo{DB: db} }

// Get returns the blob body and its current version token.
func (r *BlobRepo) Get(name string) (body, versionID string, err error) {
	var row struct {
		Body      string `db:"body"`
		VersionID string `db:"version_id"`
	}
	if err := r.DB.Get(&row, `SELECT body, version_id FROM blobs WHERE name=?`, name); err != nil {
		return "", "", err
	}
	return row.Body, row.VersionID, nil
}

// CompareAndSwap replaces the blob body only while the stored version token
// still equals expectedVersion. An empty expectedVersion skips the check
// (first write / explicit force by an operator tool). The new token is
// returned on success; ErrVersionConflict when the token moved.
func (r *BlobRepo) CompareAndSwap(name, body, expectedVersion string) (string, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	if err := tx.Get(&current, `SELECT version_id FROM blobs WHERE name=?`, name); err != nil {
		return "", err
	}
	if expectedVersion != "" && current != expectedVersion {
		return "", ErrVersionConflict
	}

	next := uuid.NewString()
	if _, err := tx.Exec(`
		UPDATE blobs SET body=?, version_id=?, updated_at=CURRENT_TIMESTAMP WHERE name=?
	`, body, next, name); err != nil {
		return "", err
	}
	return next, tx.Commit()
}
