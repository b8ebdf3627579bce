// Package catalog holds the static gate definitions and the groups derived
// from them. A Catalog is built once and is read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// DefaultGroupThreshold is the member count a location must exceed to be
// materialized as a group.
const DefaultGroupThreshold = 2

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrDuplicateGate   = errors.New("duplicate gate name")
	ErrUnknownGateType = errors.New("unknown gate type")
	ErrMissingGateName = errors.New("missing gate name")
)

// GateRecord is one row of the catalog file.
type GateRecord struct {
	ID       string
	Name     string
	Type     GateType
	Location string
	Area     string
}

// HasID reports whether the gate takes part in an id-paired traversal.
func (g GateRecord) HasID() bool { return g.ID != "" }

// GroupRecord is the set of gates sharing one location.
type GroupRecord struct {
	Name    string
	Area    string
	Members map[string]GateRecord
}

// MemberNames returns member names sorted.
func (g *GroupRecord) MemberNames() []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.Members))
	for name := range g.Members {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (g *GroupRecord) Has(name string) bool {
	if g == nil {
		return false
	}
	_, ok := g.Members[name]
	return ok
}

// Option configures catalog construction.
type Option func(*Catalog)

// WithGroupThreshold overrides DefaultGroupThreshold.
func WithGroupThreshold(n int) Option {
	return func(c *Catalog) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// Catalog answers lookups over gate records and derived groups. Lookups of
// unknown names return zero values, never errors.
type Catalog struct {
	threshold  int
	gates      map[string]GateRecord
	names      []string
	byID       map[string][]string
	byLocation map[string][]string
	groups     map[string]*GroupRecord
	memberOf   map[string]string
}

// New builds a catalog from records. Records with an empty name or a name
// already seen are skipped and reported in the returned error; the catalog
// is still usable.
func New(records []GateRecord, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		threshold:  DefaultGroupThreshold,
		gates:      make(map[string]GateRecord, len(records)),
		byID:       map[string][]string{},
		byLocation: map[string][]string{},
		groups:     map[string]*GroupRecord{},
		memberOf:   map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}

	var errs error
	for _, rec := range records {
		if err := c.add(rec); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	slices.Sort(c.names)
	c.buildGroups()
	return c, errs
}

func (c *Catalog) add(rec GateRecord) error {
	if rec.Name == "" {
		return ErrMissingGateName
	}
	if _, dup := c.gates[rec.Name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateGate, rec.Name)
	}
	c.gates[rec.Name] = rec
	c.names = append(c.names, rec.Name)
	if rec.ID != "" {
		c.byID[rec.ID] = append(c.byID[rec.ID], rec.Name)
	}
	if rec.Location != "" {
		c.byLocation[rec.Location] = append(c.byLocation[rec.Location], rec.Name)
	}
	return nil
}

func (c *Catalog) buildGroups() {
	for loc, members := range c.byLocation {
		if len(members) <= c.threshold {
			continue
		}
		g := &GroupRecord{Name: loc, Members: make(map[string]GateRecord, len(members))}
		for _, name := range members {
			rec := c.gates[name]
			if g.Area == "" {
				g.Area = rec.Area
			}
			g.Members[name] = rec
			c.memberOf[name] = loc
		}
		c.groups[loc] = g
	}
}

// GroupThreshold returns the member count a location must exceed to form a group.
func (c *Catalog) GroupThreshold() int { return c.threshold }

func (c *Catalog) Len() int { return len(c.gates) }

// Gate returns the record named name.
func (c *Catalog) Gate(name string) (GateRecord, bool) {
	g, ok := c.gates[name]
	return g, ok
}

// Group returns the group named name, or nil.
func (c *Catalog) Group(name string) *GroupRecord {
	return c.groups[name]
}

func (c *Catalog) IsGroup(name string) bool {
	_, ok := c.groups[name]
	return ok
}

func (c *Catalog) IsGate(name string) bool {
	_, ok := c.gates[name]
	return ok
}

// IsGateInGroup reports whether the gate belongs to a materialized group.
func (c *Catalog) IsGateInGroup(name string) bool {
	_, ok := c.memberOf[name]
	return ok
}

// GatesByID returns every record sharing id, sorted by name.
func (c *Catalog) GatesByID(id string) []GateRecord {
	if id == "" {
		return nil
	}
	return c.collect(c.byID[id])
}

// GatesByLocation returns every record whose location is loc, sorted by name.
func (c *Catalog) GatesByLocation(loc string) []GateRecord {
	if loc == "" {
		return nil
	}
	return c.collect(c.byLocation[loc])
}

// Exit returns the other end of the id pairing the named gate belongs to.
func (c *Catalog) Exit(name string) (GateRecord, bool) {
	gate, ok := c.gates[name]
	if !ok || gate.ID == "" {
		return GateRecord{}, false
	}
	for _, other := range c.GatesByID(gate.ID) {
		if other.Name != gate.Name {
			return other, true
		}
	}
	return GateRecord{}, false
}

// Gates returns every record sorted by name.
func (c *Catalog) Gates() []GateRecord {
	return c.collect(c.names)
}

// Groups returns every group sorted by name.
func (c *Catalog) Groups() []*GroupRecord {
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]*GroupRecord, 0, len(names))
	for _, name := range names {
		out = append(out, c.groups[name])
	}
	return out
}

func (c *Catalog) collect(names []string) []GateRecord {
	if len(names) == 0 {
		return nil
	}
	out := make([]GateRecord, 0, len(names))
	for _, name := range names {
		out = append(out, c.gates[name])
	}
	slices.SortFunc(out, func(a, b GateRecord) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}
