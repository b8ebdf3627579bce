package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

const fieldsPerRecord = 5 // id, name, type, location, area

// RecordError is a problem with one catalog row.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RecordError) Unwrap() error { return e.Err }

// Load parses the catalog file at path.
func Load(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

// Parse reads catalog rows and builds a Catalog from the valid ones. The
// returned catalog is non-nil whenever the reader could be consumed; err
// aggregates one RecordError per rejected row.
func Parse(r io.Reader, opts ...Option) (*Catalog, error) {
	records, errs := ParseRecords(r)
	c, err := New(records, opts...)
	return c, multierr.Append(errs, err)
}

// ParseRecords reads rows of id,name,type,location,area. Blank lines are
// skipped. Rows with the wrong field count, an empty name, an unknown type
// or a name seen on an earlier row are rejected with their line number.
func ParseRecords(r io.Reader) ([]GateRecord, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	csvr.TrimLeadingSpace = true

	var (
		out  []GateRecord
		errs error
		seen = map[string]int{}
	)
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			errs = multierr.Append(errs, &RecordError{Line: line, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)})
			continue
		}
		line, _ := csvr.FieldPos(0)
		gate, err := parseRow(rec)
		if err != nil {
			errs = multierr.Append(errs, &RecordError{Line: line, Err: err})
			continue
		}
		if first, dup := seen[gate.Name]; dup {
			errs = multierr.Append(errs, &RecordError{
				Line: line,
				Err:  fmt.Errorf("%w: %q (first on line %d)", ErrDuplicateGate, gate.Name, first),
			})
			continue
		}
		seen[gate.Name] = line
		out = append(out, gate)
	}
	return out, errs
}

func parseRow(fields []string) (GateRecord, error) {
	if len(fields) != fieldsPerRecord {
		return GateRecord{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, fieldsPerRecord, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[1] == "" {
		return GateRecord{}, ErrMissingGateName
	}
	// names and locations become node names, which connection ids join with a comma
	for _, f := range []string{fields[1], fields[3]} {
		if strings.Contains(f, ",") {
			return GateRecord{}, fmt.Errorf("%w: %q contains a comma", ErrMalformedRecord, f)
		}
	}
	typ, ok := ParseGateType(fields[2])
	if !ok {
		return GateRecord{}, fmt.Errorf("%w: %q", ErrUnknownGateType, fields[2])
	}
	return GateRecord{
		ID:       fields[0],
		Name:     fields[1],
		Type:     typ,
		Location: fields[3],
		Area:     fields[4],
	}, nil
}
