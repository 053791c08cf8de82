package moods

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDataFile is looked up in the working directory when no path is given.
const DefaultDataFile = "MoodsFreshCycle.csv"

var (
	ErrMissingHeader = errors.New("missing CSV header")
	ErrDuplicateCol  = errors.New("duplicate CSV column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrUnsorted      = errors.New("days not strictly increasing")
)

// Header columns. varName is carried but unused by the layout.
const (
	colDay      = "day"
	colDayLabel = "dayLabel"
	colVarName  = "varName"
)

var requiredColumns = []string{colDay, colDayLabel, colVarName, string(Threat), string(Harm), string(Challenge), string(Benefit)}

// ParseError pinpoints the row and column that failed. Line is 1-based and counts the header.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d column %s=%q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrMalformedRow, e.Err} }

// LoadCSV opens path and parses it with ParseCSV.
func LoadCSV(path string) ([]Record, error) {
	defer TimeTrack(time.Now(), "load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	recs, err := ParseCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	Debugf("loaded %d records from %s", len(recs), path)
	return recs, nil
}

// ParseCSV reads a header row followed by one record per line. Any malformed
// row fails the whole parse. Rows are neither sorted nor deduplicated; an
// out-of-order or repeated day is reported as ErrUnsorted.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// field count is checked against the header below for a better message
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if prev, dup := idx[name]; dup {
			return nil, fmt.Errorf("%w: %q appears at %d and %d", ErrDuplicateCol, name, prev+1, i+1)
		}
		idx[name] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: column %q not found", ErrMissingHeader, c)
		}
	}

	var out []Record
	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if len(fields) != len(header) {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, got %d", len(header), len(fields))}
		}
		rec, err := parseRow(fields, idx, line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := CheckOrder(out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseRow(fields []string, idx map[string]int, line int) (Record, error) {
	get := func(col string) string { return strings.TrimSpace(fields[idx[col]]) }

	raw := get(colDay)
	day, err := strconv.Atoi(raw)
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: colDay, Value: raw, Err: err}
	}
	rec := Record{Day: day, DayLabel: get(colDayLabel), VarName: get(colVarName)}

	for _, k := range Keys {
		raw := get(string(k))
		v, err := parseMetric(raw)
		if err != nil {
			return Record{}, &ParseError{Line: line, Column: string(k), Value: raw, Err: err}
		}
		switch k {
		case Threat:
			rec.Threat = v
		case Harm:
			rec.Harm = v
		case Challenge:
			rec.Challenge = v
		case Benefit:
			rec.Benefit = v
		}
	}
	return rec, nil
}

func parseMetric(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	if v < 0 {
		return 0, errors.New("negative value")
	}
	return v, nil
}

// CheckOrder verifies days are unique and ascending.
func CheckOrder(records []Record) error {
	for i := 1; i < len(records); i++ {
		if records[i].Day <= records[i-1].Day {
			return fmt.Errorf("%w: day %d follows day %d (record %d)", ErrUnsorted, records[i].Day, records[i-1].Day, i+1)
		}
	}
	return nil
}
