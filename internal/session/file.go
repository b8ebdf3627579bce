package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultExt is appended to save paths that carry no extension.
const DefaultExt = ".data"

var ErrUnsupportedFormat = errors.New("unsupported session format")

// Format is a session document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", DefaultExt, ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes doc to w.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
}

// Decode reads a document from r.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return doc, nil
}

// SavePath returns path with DefaultExt appended when it has none.
func SavePath(path string) string {
	if filepath.Ext(path) == "" {
		return path + DefaultExt
	}
	return path
}

// WriteFile saves doc to path, replacing any existing file atomically. It
// returns the path actually written.
func WriteFile(path string, doc Document) (string, error) {
	path = SavePath(path)
	f, err := FormatFor(path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc, f); err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create session dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("replace session: %w", err)
	}
	return path, nil
}

// ReadFile loads a document from path.
func ReadFile(path string) (Document, error) {
	f, err := FormatFor(path)
	if err != nil {
		return Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open session: %w", err)
	}
	defer file.Close()
	return Decode(file, f)
}

// Save writes the session to path.
func (s *Session) Save(path string) (string, error) {
	return WriteFile(path, s.Document())
}

// LoadFile replaces the session with the document stored at path. A
// document that fails to decode leaves the session untouched.
func (s *Session) LoadFile(path string) error {
	doc, err := ReadFile(path)
	if err != nil {
		return err
	}
	return s.Load(doc)
}
