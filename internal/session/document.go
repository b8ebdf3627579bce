package session

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/graph"
)

// ErrUnknownNode is reported for saved nodes the catalog no longer knows.
var ErrUnknownNode = errors.New("unknown node")

// GatePlacement is a saved gate node. Connections holds neighbor names.
type GatePlacement struct {
	Name        string   `json:"Name" yaml:"name"`
	X           float64  `json:"X" yaml:"x"`
	Y           float64  `json:"Y" yaml:"y"`
	Z           float64  `json:"Z" yaml:"z"`
	Connections []string `json:"Connections" yaml:"connections"`
	// Collapsed marks an objective gate not yet completed.
	Collapsed bool `json:"Collapsed,omitempty" yaml:"collapsed,omitempty"`
}

// GroupPlacement is a saved group node.
type GroupPlacement struct {
	Name        string   `json:"Name" yaml:"name"`
	X           float64  `json:"X" yaml:"x"`
	Y           float64  `json:"Y" yaml:"y"`
	Z           float64  `json:"Z" yaml:"z"`
	Connections []string `json:"Connections,omitempty" yaml:"connections,omitempty"`
}

// Document is the persisted form of a session.
type Document struct {
	Gates         []GatePlacement  `json:"Gates" yaml:"gates"`
	Groups        []GroupPlacement `json:"Groups" yaml:"groups"`
	DisabledTypes []string         `json:"DisabledTypes" yaml:"disabled_types"`
}

// Len returns the number of placed nodes in the document.
func (d Document) Len() int { return len(d.Gates) + len(d.Groups) }

// Document captures the session for saving.
func (s *Session) Document() Document {
	doc := Document{
		Gates:         []GatePlacement{},
		Groups:        []GroupPlacement{},
		DisabledTypes: s.Graph.DisabledTypes().Strings(),
	}
	for _, n := range s.Graph.Nodes() {
		p := n.Position
		conns := s.Graph.Neighbors(n.Name)
		switch n.Kind {
		case graph.KindGroup:
			doc.Groups = append(doc.Groups, GroupPlacement{Name: n.Name, X: p.X, Y: p.Y, Z: p.Z, Connections: conns})
		default:
			if conns == nil {
				conns = []string{}
			}
			doc.Gates = append(doc.Gates, GatePlacement{
				Name: n.Name, X: p.X, Y: p.Y, Z: p.Z,
				Connections: conns,
				Collapsed:   !n.Expanded,
			})
		}
	}
	return doc
}

// Load replaces the session with doc. Nodes are placed before any
// connection is made and nothing is expanded. Entries the catalog does not
// know are skipped and reported; the rest of the document still loads.
// History starts empty.
func (s *Session) Load(doc Document) error {
	s.Reset(catalog.ParseTypeSet(doc.DisabledTypes))

	var errs error
	place := func(name string, pos r3.Vec) bool {
		if !s.Catalog.IsGate(name) && !s.Catalog.IsGroup(name) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrUnknownNode, name))
			return false
		}
		s.Graph.RestoreNode(name, pos, "")
		return true
	}
	for _, g := range doc.Gates {
		if place(g.Name, r3.Vec{X: g.X, Y: g.Y, Z: g.Z}) {
			s.Graph.SetExpanded(g.Name, !g.Collapsed)
		}
	}
	for _, g := range doc.Groups {
		place(g.Name, r3.Vec{X: g.X, Y: g.Y, Z: g.Z})
	}

	connect := func(name string, others []string) {
		for _, other := range others {
			s.Graph.ConnectNodes(name, other)
		}
	}
	for _, g := range doc.Gates {
		connect(g.Name, g.Connections)
	}
	for _, g := range doc.Groups {
		connect(g.Name, g.Connections)
	}
	s.Stack.Clear()

	s.log.Info("loaded session",
		zap.Int("nodes", s.Graph.NodeCount()),
		zap.Int("connections", s.Graph.ConnectionCount()),
		zap.Int("skipped", len(multierr.Errors(errs))))
	return errs
}
