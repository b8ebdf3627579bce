package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/gatecharter/internal/database"
	"github.com/jask/gatecharter/internal/database/repository"
	"github.com/jask/gatecharter/internal/session"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionLibrary stores named sessions in the database and moves them to
// and from document files.
type SessionLibrary struct {
	DB       *sql.DB
	Sessions *repository.SessionRepo
	Log      *zap.Logger
}

func NewSessionLibrary(db *sql.DB, log *zap.Logger) *SessionLibrary {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionLibrary{DB: db, Sessions: repository.NewSessionRepo(db), Log: log.Named("library")}
}

// Save stores the live session under name.
func (l *SessionLibrary) Save(ctx context.Context, name string, s *session.Session) (string, error) {
	return l.SaveDocument(ctx, name, s.Document())
}

// SaveDocument stores doc under name and returns the stored id.
func (l *SessionLibrary) SaveDocument(ctx context.Context, name string, doc session.Document) (string, error) {
	if name == "" {
		return "", fmt.Errorf("save session: name is required")
	}
	var buf bytes.Buffer
	if err := session.Encode(&buf, doc, session.FormatJSON); err != nil {
		return "", err
	}
	id, err := l.Sessions.Upsert(ctx, repository.SessionRecord{
		Name:          name,
		DisabledTypes: doc.DisabledTypes,
		NodeCount:     doc.Len(),
		Document:      buf.Bytes(),
	})
	if err != nil {
		return "", fmt.Errorf("save session %q: %w", name, err)
	}
	l.Log.Info("saved session", zap.String("name", name), zap.String("id", id), zap.Int("nodes", doc.Len()))
	return id, nil
}

// Document returns the stored document called name.
func (l *SessionLibrary) Document(ctx context.Context, name string) (session.Document, error) {
	rec, err := l.Sessions.ByName(ctx, name)
	if err != nil {
		return session.Document{}, fmt.Errorf("load session %q: %w", name, err)
	}
	if rec == nil {
		return session.Document{}, fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	return session.Decode(bytes.NewReader(rec.Document), session.FormatJSON)
}

// Open replaces the live session with the one stored under name.
func (l *SessionLibrary) Open(ctx context.Context, name string, s *session.Session) error {
	doc, err := l.Document(ctx, name)
	if err != nil {
		return err
	}
	if err := s.Load(doc); err != nil {
		l.Log.Warn("session loaded with skipped nodes", zap.String("name", name), zap.Error(err))
		return err
	}
	return nil
}

// Export writes the stored session to a document file and returns the
// path written.
func (l *SessionLibrary) Export(ctx context.Context, name, path string) (string, error) {
	doc, err := l.Document(ctx, name)
	if err != nil {
		return "", err
	}
	return session.WriteFile(path, doc)
}

// Import stores a document file under name.
func (l *SessionLibrary) Import(ctx context.Context, name, path string) (string, error) {
	doc, err := session.ReadFile(path)
	if err != nil {
		return "", err
	}
	return l.SaveDocument(ctx, name, doc)
}

func (l *SessionLibrary) List(ctx context.Context) ([]repository.SessionRecord, error) {
	return l.Sessions.List(ctx)
}

func (l *SessionLibrary) Delete(ctx context.Context, name string) error {
	ok, err := l.Sessions.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("delete session %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	l.Log.Info("deleted session", zap.String("name", name))
	return nil
}

// Reset removes every stored session.
func (l *SessionLibrary) Reset(ctx context.Context) error {
	if err := database.WithTx(l.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM sessions")
		return err
	}); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	_, _ = l.DB.ExecContext(ctx, "VACUUM")
	return nil
}
