package tui

import (
	"context"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/gatecharter/internal/service"
	"github.com/jask/gatecharter/internal/session"
)

type savedMsg struct {
	name   string
	status string
	err    error
}

type savedListMsg struct {
	names []string
	err   error
}

type documentMsg struct {
	name string
	doc  session.Document
	err  error
}

// saveCmd stores a captured document; the live session is not touched off
// the update loop.
func saveCmd(ctx context.Context, lib *service.SessionLibrary, name string, doc session.Document) tea.Cmd {
	return func() tea.Msg {
		if _, err := lib.SaveDocument(ctx, name, doc); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{name: name, status: "Saved " + name}
	}
}

func exportCmd(path string, doc session.Document) tea.Cmd {
	return func() tea.Msg {
		written, err := session.WriteFile(path, doc)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{name: trimExt(written), status: "Exported " + written}
	}
}

func listSavedCmd(ctx context.Context, lib *service.SessionLibrary) tea.Cmd {
	return func() tea.Msg {
		recs, err := lib.List(ctx)
		if err != nil {
			return savedListMsg{err: err}
		}
		names := make([]string, 0, len(recs))
		for _, r := range recs {
			names = append(names, r.Name)
		}
		return savedListMsg{names: names}
	}
}

func openCmd(ctx context.Context, lib *service.SessionLibrary, name string) tea.Cmd {
	return func() tea.Msg {
		doc, err := lib.Document(ctx, name)
		return documentMsg{name: name, doc: doc, err: err}
	}
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
