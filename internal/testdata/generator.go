package testdata

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/jask/gatecharter/internal/catalog"
)

// Shape sizes a generated catalog.
type Shape struct {
	Areas            int
	LocationsPerArea int
	GatesPerLocation int
	ShortcutEvery    int // every Nth gate becomes a DoorShortcut with an exit; 0 disables
	Seed             uint64
}

// DefaultShape is roughly the size of a full game catalog.
func DefaultShape() Shape {
	return Shape{Areas: 12, LocationsPerArea: 20, GatesPerLocation: 4, ShortcutEvery: 9, Seed: 1}
}

var fillerTypes = []catalog.GateType{
	catalog.Traversable,
	catalog.Traversable,
	catalog.Traversable,
	catalog.Boss,
	catalog.Warp,
	catalog.PVP,
	catalog.Golden,
}

// Gates returns a deterministic set of records for s. Consecutive gates in
// an area are id-paired so traversals chain across locations.
func Gates(s Shape) []catalog.GateRecord {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	var out []catalog.GateRecord
	pair := 0
	for a := 0; a < s.Areas; a++ {
		area := fmt.Sprintf("Area%02d", a)
		pending := ""
		for l := 0; l < s.LocationsPerArea; l++ {
			loc := fmt.Sprintf("%s-Loc%02d", area, l)
			for g := 0; g < s.GatesPerLocation; g++ {
				rec := catalog.GateRecord{
					Name:     fmt.Sprintf("%s-Gate%d", loc, g),
					Type:     fillerTypes[rng.IntN(len(fillerTypes))],
					Location: loc,
					Area:     area,
				}
				n := len(out) + 1
				if s.ShortcutEvery > 0 && n%s.ShortcutEvery == 0 {
					pair++
					rec.Type = catalog.DoorShortcut
					rec.ID = fmt.Sprintf("S%d", pair)
					out = append(out, rec, catalog.GateRecord{
						ID:       rec.ID,
						Name:     rec.Name + "-Exit",
						Type:     catalog.ShortcutExit,
						Location: fmt.Sprintf("%s-Loc%02d", area, rng.IntN(s.LocationsPerArea)),
						Area:     area,
					})
					continue
				}
				if pending == "" {
					pair++
					rec.ID = fmt.Sprintf("G%d", pair)
					pending = rec.ID
					out = append(out, rec)
					continue
				}
				rec.ID = pending
				pending = ""
				out = append(out, rec)
			}
		}
	}
	return out
}

// WriteCSV writes gates in catalog file order.
func WriteCSV(w io.Writer, gates []catalog.GateRecord) error {
	for _, g := range gates {
		if _, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s\n", g.ID, g.Name, g.Type, g.Location, g.Area); err != nil {
			return err
		}
	}
	return nil
}
