package repository

import "time"

// SessionRecord is a saved editing session.
type SessionRecord struct {
	ID            string
	Name          string
	DisabledTypes []string
	NodeCount     int
	// Document is the encoded session document; empty in List results.
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
