package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// SessionRepo handles saved sessions.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Upsert stores rec under its name, keeping the existing id when the name
// is already taken. It returns the stored id.
func (r *SessionRepo) Upsert(ctx context.Context, rec SessionRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
	INSERT INTO sessions(id, name, disabled_types, node_count, document, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
	 disabled_types=excluded.disabled_types,
	 node_count=excluded.node_count,
	 document=excluded.document,
	 updated_at=CURRENT_TIMESTAMP
	RETURNING id;
	`, id, rec.Name, strings.Join(rec.DisabledTypes, ","), rec.NodeCount, rec.Document)
	var stored string
	if err := row.Scan(&stored); err != nil {
		return "", err
	}
	return stored, nil
}

const sessionColumns = `id, name, disabled_types, node_count, created_at, updated_at`

func scanSession(sc interface{ Scan(...any) error }, rec *SessionRecord, extra ...any) error {
	var disabled string
	dest := append([]any{&rec.ID, &rec.Name, &disabled, &rec.NodeCount, &rec.CreatedAt, &rec.UpdatedAt}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return err
	}
	if disabled != "" {
		rec.DisabledTypes = strings.Split(disabled, ",")
	}
	return nil
}

func (r *SessionRepo) get(ctx context.Context, where string, arg any) (*SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+`, document FROM sessions WHERE `+where, arg)
	var rec SessionRecord
	if err := scanSession(row, &rec, &rec.Document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Get returns the session with id, or nil when there is none.
func (r *SessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	return r.get(ctx, `id = ?`, id)
}

// ByName returns the session called name, or nil when there is none.
func (r *SessionRepo) ByName(ctx context.Context, name string) (*SessionRecord, error) {
	return r.get(ctx, `name = ?`, name)
}

// List returns every session, most recently updated first, without documents.
func (r *SessionRepo) List(ctx context.Context) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := scanSession(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the session called name and reports whether it existed.
func (r *SessionRepo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
