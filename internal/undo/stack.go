// Package undo records user gestures as groups of atomic commands and
// replays them backwards and forwards.
package undo

import "go.uber.org/zap"

// Group is one undoable gesture.
type Group struct {
	Commands []Command
}

func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Commands)
}

// Stack holds the undo and redo histories plus at most one open group.
type Stack struct {
	undo      []*Group
	redo      []*Group
	open      *Group
	replaying bool
	log       *zap.Logger
}

func NewStack(log *zap.Logger) *Stack {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stack{log: log.Named("undo")}
}

// Begin opens a new empty group. Calling Begin while a group is open drops
// the open group.
func (s *Stack) Begin() {
	if s.open != nil {
		s.log.Warn("begin with open group; discarding", zap.Int("commands", s.open.Len()))
	}
	s.open = &Group{}
}

// Record appends cmd to the open group, opening one if needed. Commands
// issued while replaying history are ignored.
func (s *Stack) Record(cmd Command) {
	if s.replaying {
		return
	}
	if s.open == nil {
		s.open = &Group{}
	}
	s.open.Commands = append(s.open.Commands, cmd)
}

// Commit closes the open group. A non-empty group becomes the newest undo
// entry and invalidates the redo history. It reports whether anything was
// pushed.
func (s *Stack) Commit() bool {
	g := s.open
	s.open = nil
	if g.Len() == 0 {
		if g == nil {
			s.log.Debug("commit without open group")
		}
		return false
	}
	s.undo = append(s.undo, g)
	s.redo = nil
	s.log.Debug("commit", zap.Int("commands", g.Len()), zap.Int("undo_depth", len(s.undo)))
	return true
}

// Do runs fn inside its own group and commits it.
func (s *Stack) Do(fn func()) bool {
	s.Begin()
	fn()
	return s.Commit()
}

// Undo reverts the newest group. A group still open is committed first.
func (s *Stack) Undo(t Target) bool {
	s.Commit()
	if len(s.undo) == 0 {
		return false
	}
	g := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	s.replay(func() {
		for i := len(g.Commands) - 1; i >= 0; i-- {
			g.Commands[i].Inverse(t)
		}
	})
	s.redo = append(s.redo, g)
	s.log.Debug("undo", zap.Int("commands", g.Len()))
	return true
}

// Redo replays the newest undone group.
func (s *Stack) Redo(t Target) bool {
	s.Commit()
	if len(s.redo) == 0 {
		return false
	}
	g := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	s.replay(func() {
		for _, cmd := range g.Commands {
			cmd.Forward(t)
		}
	})
	s.undo = append(s.undo, g)
	s.log.Debug("redo", zap.Int("commands", g.Len()))
	return true
}

func (s *Stack) replay(fn func()) {
	s.replaying = true
	defer func() { s.replaying = false }()
	fn()
}

// Clear forgets all history and any open group.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
	s.open = nil
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

func (s *Stack) UndoDepth() int { return len(s.undo) }

func (s *Stack) RedoDepth() int { return len(s.redo) }

// Open reports whether a group is currently open.
func (s *Stack) Open() bool { return s.open != nil }

// Replaying reports whether history is being replayed.
func (s *Stack) Replaying() bool { return s.replaying }

// PeekUndo describes, in execution order, what the next Undo would do.
func (s *Stack) PeekUndo() []string {
	if len(s.undo) == 0 {
		return nil
	}
	g := s.undo[len(s.undo)-1]
	out := make([]string, 0, g.Len())
	for i := len(g.Commands) - 1; i >= 0; i-- {
		out = append(out, g.Commands[i].UndoString())
	}
	return out
}

// PeekRedo describes, in execution order, what the next Redo would do.
func (s *Stack) PeekRedo() []string {
	if len(s.redo) == 0 {
		return nil
	}
	g := s.redo[len(s.redo)-1]
	out := make([]string, 0, g.Len())
	for _, cmd := range g.Commands {
		out = append(out, cmd.RedoString())
	}
	return out
}

// LastDone describes, in execution order, the newest group on the undo
// history as it was applied.
func (s *Stack) LastDone() []string {
	if len(s.undo) == 0 {
		return nil
	}
	g := s.undo[len(s.undo)-1]
	out := make([]string, 0, g.Len())
	for _, cmd := range g.Commands {
		out = append(out, cmd.RedoString())
	}
	return out
}
