// Package search implements the gate picker: a query box over the gates
// the session may place next, ranked by fuzzy subsequence match with an
// edit-distance fallback for typos.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/gatecharter/internal/catalog"
)

// Item is one pickable gate.
type Item struct {
	Name    string
	Section string
	Type    catalog.GateType
}

// ItemsFrom builds picker items from gate records, sectioned by area.
func ItemsFrom(gates []catalog.GateRecord) []Item {
	out := make([]Item, 0, len(gates))
	for _, g := range gates {
		out = append(out, Item{Name: g.Name, Section: g.Area, Type: g.Type})
	}
	return out
}

type Action int

const (
	ActionNone Action = iota
	ActionMoved
	ActionSelected
	ActionCancelled
)

type Result struct {
	Action Action
	Item   Item
}

type Picker struct {
	title    string
	items    []Item
	filtered []Item
	query    string
	cursor   int
	fuzzy    bool
}

func NewPicker(title string, items []Item) *Picker {
	p := &Picker{title: strings.TrimSpace(title)}
	p.SetItems(items)
	return p
}

func (p *Picker) Title() string { return p.title }

func (p *Picker) Query() string { return p.query }

func (p *Picker) Cursor() int { return p.cursor }

// Approximate reports whether the current results come from the
// edit-distance fallback.
func (p *Picker) Approximate() bool { return p.fuzzy }

func (p *Picker) Items() []Item {
	return append([]Item(nil), p.filtered...)
}

func (p *Picker) SetItems(items []Item) {
	p.items = append([]Item(nil), items...)
	p.rebuild()
}

func (p *Picker) SetQuery(q string) {
	p.query = q
	p.rebuild()
}

func (p *Picker) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *Picker) CursorDown() {
	if p.cursor < len(p.filtered)-1 {
		p.cursor++
	}
}

func (p *Picker) Current() (Item, bool) {
	if len(p.filtered) == 0 {
		return Item{}, false
	}
	return p.filtered[min(max(p.cursor, 0), len(p.filtered)-1)], true
}

// HandleKey applies a key name as reported by bubbletea. Letters always
// extend the query, so navigation uses arrows and ctrl+p/ctrl+n.
func (p *Picker) HandleKey(key string) Result {
	switch key {
	case "up", "ctrl+p", "shift+tab":
		before := p.cursor
		p.CursorUp()
		if p.cursor != before {
			return Result{Action: ActionMoved}
		}
	case "down", "ctrl+n", "tab":
		before := p.cursor
		p.CursorDown()
		if p.cursor != before {
			return Result{Action: ActionMoved}
		}
	case "enter":
		if item, ok := p.Current(); ok {
			return Result{Action: ActionSelected, Item: item}
		}
	case "esc":
		return Result{Action: ActionCancelled}
	case "backspace":
		if len(p.query) > 0 {
			p.SetQuery(p.query[:len(p.query)-1])
		}
	case "ctrl+u":
		p.SetQuery("")
	case "space":
		p.SetQuery(p.query + " ")
	default:
		if isPrintableASCIIKey(key) {
			p.SetQuery(p.query + key)
		}
	}
	return Result{Action: ActionNone}
}

// Sections returns section names in first-seen order.
func (p *Picker) Sections() []string {
	seen := make(map[string]bool, len(p.items))
	var out []string
	for _, item := range p.items {
		if !seen[item.Section] {
			seen[item.Section] = true
			out = append(out, item.Section)
		}
	}
	return out
}

type scored struct {
	item  Item
	score int
	index int
}

func (p *Picker) rebuild() {
	q := strings.TrimSpace(p.query)
	bySection := p.score(q, fuzzyMatchScore)
	p.fuzzy = false
	if len(bySection) == 0 && q != "" {
		bySection = p.score(q, typoScore)
		p.fuzzy = len(bySection) > 0
	}

	out := make([]Item, 0, len(p.items))
	for _, section := range p.Sections() {
		rows := bySection[section]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].score != rows[j].score {
				return rows[i].score > rows[j].score
			}
			return rows[i].index < rows[j].index
		})
		for _, row := range rows {
			out = append(out, row.item)
		}
	}
	p.filtered = out
	if p.cursor > len(out)-1 {
		p.cursor = max(len(out)-1, 0)
	}
}

func (p *Picker) score(q string, match func(label, query string) (bool, int)) map[string][]scored {
	out := map[string][]scored{}
	for i, item := range p.items {
		if ok, s := match(item.Name, q); ok {
			out[item.Section] = append(out[item.Section], scored{item: item, score: s, index: i})
		}
	}
	return out
}

func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	from := 0
	for i := 0; i < len(queryLower); i++ {
		j := strings.IndexByte(labelLower[from:], queryLower[i])
		if j < 0 {
			return false, 0
		}
		matchIdx = append(matchIdx, from+j)
		from += j + 1
	}

	score := len(queryLower)
	if matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), query) {
		score += 20
	}
	return true, score
}

// typoScore matches labels whose closest word, or the whole label, lies
// within a third of the query length in edit distance.
func typoScore(label, query string) (bool, int) {
	q := strings.ToLower(query)
	budget := max(1, len(q)/3)
	best := levenshtein.ComputeDistance(strings.ToLower(label), q)
	for _, word := range strings.Fields(strings.ToLower(label)) {
		best = min(best, levenshtein.ComputeDistance(word, q))
	}
	if best > budget {
		return false, 0
	}
	return true, -best
}

func isPrintableASCIIKey(key string) bool {
	return len(key) == 1 && key[0] >= 32 && key[0] < 127
}
