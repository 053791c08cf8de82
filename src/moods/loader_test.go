package moods

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "day,dayLabel,varName,Threat,Harm,Challenge,Benefit\n"

func TestParseCSV_Valid(t *testing.T) {
	in := header +
		"1,Mon,m,1,0,0.5,2\n" +
		"2,Tue,m,2,0.25,0,0\n" +
		"3,Wed,m,3,0,0,0\n"
	recs, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	r := recs[1]
	if r.Day != 2 || r.DayLabel != "Tue" || r.VarName != "m" {
		t.Fatalf("unexpected record identity: %+v", r)
	}
	if r.Value(Threat) != 2 || r.Value(Harm) != 0.25 || r.Value(Challenge) != 0 || r.Value(Benefit) != 0 {
		t.Fatalf("unexpected metric values: %+v", r)
	}
	if got := recs[0].Title(); got != "[1] Mon" {
		t.Fatalf("title mismatch: %q", got)
	}
}

func TestParseCSV_ColumnsByName(t *testing.T) {
	in := "Benefit,Challenge,Harm,Threat,varName,dayLabel,day\n" +
		"4,3,2,1,x,Mon,1\n"
	recs, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := recs[0]
	if r.Threat != 1 || r.Harm != 2 || r.Challenge != 3 || r.Benefit != 4 || r.Day != 1 {
		t.Fatalf("columns mapped wrongly: %+v", r)
	}
}

func TestParseCSV_RejectsMalformed(t *testing.T) {
	cases := []struct {
		name   string
		row    string
		column string
	}{
		{"non-numeric metric", "1,Mon,m,abc,0,0,0\n", "Threat"},
		{"empty metric", "1,Mon,m,1,,0,0\n", "Harm"},
		{"NaN metric", "1,Mon,m,1,0,NaN,0\n", "Challenge"},
		{"negative metric", "1,Mon,m,1,0,0,-2\n", "Benefit"},
		{"fractional day", "1.5,Mon,m,1,0,0,0\n", "day"},
		{"short row", "1,Mon,m,1,0,0\n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(header + tc.row))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrMalformedRow) {
				t.Fatalf("expected ErrMalformedRow, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != 2 {
				t.Fatalf("expected line 2, got %d", pe.Line)
			}
			if pe.Column != tc.column {
				t.Fatalf("expected column %q, got %q", tc.column, pe.Column)
			}
		})
	}
}

func TestParseCSV_HeaderOnlyIsEmptyDataset(t *testing.T) {
	recs, err := ParseCSV(strings.NewReader(header))
	if err != nil {
		t.Fatalf("header-only input should parse: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestParseCSV_MissingHeader(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("expected ErrMissingHeader for empty input, got %v", err)
	}
	if _, err := ParseCSV(strings.NewReader("day,dayLabel,Threat\n1,Mon,1\n")); !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("expected ErrMissingHeader for missing columns, got %v", err)
	}
}

func TestParseCSV_DuplicateColumn(t *testing.T) {
	in := "day,dayLabel,varName,Threat,Harm,Challenge,Benefit,Threat\n1,Mon,m,1,0,0,0,9\n"
	_, err := ParseCSV(strings.NewReader(in))
	if !errors.Is(err, ErrDuplicateCol) {
		t.Fatalf("expected header error for repeated column, got %v", err)
	}
	if !strings.Contains(err.Error(), `"Threat"`) {
		t.Fatalf("error should name the repeated column: %v", err)
	}
	// names are compared after trimming
	in = "day,dayLabel,varName,Threat,Harm,Challenge,Benefit, Harm\n"
	if _, err := ParseCSV(strings.NewReader(in)); !errors.Is(err, ErrDuplicateCol) {
		t.Fatalf("expected header error for padded repeat, got %v", err)
	}
}

func TestParseCSV_Unsorted(t *testing.T) {
	in := header + "2,Tue,m,1,1,1,1\n1,Mon,m,1,1,1,1\n"
	if _, err := ParseCSV(strings.NewReader(in)); !errors.Is(err, ErrUnsorted) {
		t.Fatalf("expected ErrUnsorted, got %v", err)
	}
	dup := header + "1,Mon,m,1,1,1,1\n1,Mon,m,1,1,1,1\n"
	if _, err := ParseCSV(strings.NewReader(dup)); !errors.Is(err, ErrUnsorted) {
		t.Fatalf("expected ErrUnsorted for duplicate day, got %v", err)
	}
}

func TestLoadCSV_Testdata(t *testing.T) {
	recs, err := LoadCSV(filepath.Join("testdata", "moods.csv"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 30 {
		t.Fatalf("expected 30 records, got %d", len(recs))
	}
	days := Days(recs)
	for i, d := range days {
		if d != i+1 {
			t.Fatalf("day %d at index %d", d, i)
		}
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestParseSeriesKey(t *testing.T) {
	k, err := ParseSeriesKey(" harm ")
	if err != nil || k != Harm {
		t.Fatalf("expected Harm, got %q err=%v", k, err)
	}
	if _, err := ParseSeriesKey("Joy"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	for i, k := range Keys {
		if k.Index() != i {
			t.Fatalf("index mismatch for %s", k)
		}
	}
	if SeriesKey("Joy").Index() != -1 {
		t.Fatalf("unknown key must have index -1")
	}
}
