package display

import (
	"strings"
	"testing"

	"intention/internal/counter"
)

func TestParseSuffixMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SuffixMode
		wantErr bool
	}{
		{"", SuffixHZ, false},
		{"HZ", SuffixHZ, false},
		{"hz", SuffixHZ, false},
		{"EXP", SuffixEXP, false},
		{" exp ", SuffixEXP, false},
		{"SCI", SuffixHZ, true},
	}
	for _, tt := range tests {
		got, err := ParseSuffixMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSuffixMode(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestNewRendererRejectsUnknownColor(t *testing.T) {
	if _, err := NewRenderer("CHARTREUSE", SuffixHZ); err == nil {
		t.Fatal("expected error for unknown color")
	}
	if _, err := NewRenderer("lightblue", SuffixHZ); err != nil {
		t.Errorf("color names should be case-insensitive: %v", err)
	}
	if _, err := NewRenderer("", SuffixHZ); err != nil {
		t.Errorf("empty color should default to white: %v", err)
	}
}

func TestColorNamesSortedAndComplete(t *testing.T) {
	names := ColorNames()
	if len(names) != 16 {
		t.Fatalf("palette has %d colors, want 16", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %q >= %q", names[i-1], names[i])
		}
	}
}

func TestStatusLine(t *testing.T) {
	r, err := NewRenderer("WHITE", SuffixHZ)
	if err != nil {
		t.Fatal(err)
	}
	iter := counter.NewTally().SetProduct(1234567)
	freq := counter.NewTally().SetProduct(1234567)

	line := r.Status(65, iter, freq, "I am Love.")
	for _, want := range []string{"[00:01:05]", "Repeating:", "1.234M", "1.234MHz", "I am Love."} {
		if !strings.Contains(line, want) {
			t.Errorf("status line %q missing %q", line, want)
		}
	}
}

func TestStatusLineEXP(t *testing.T) {
	r, err := NewRenderer("CYAN", SuffixEXP)
	if err != nil {
		t.Fatal(err)
	}
	iter := counter.NewTally().SetProduct(1234567)
	line := r.Status(1, iter, iter, "x")
	if !strings.Contains(line, "1.234e+06") {
		t.Errorf("EXP status line %q missing scientific notation", line)
	}
}

func TestValues(t *testing.T) {
	r, _ := NewRenderer("WHITE", SuffixHZ)
	iter := counter.NewTally().SetProduct(1500)
	freq := counter.NewTally().SetProduct(2500000)
	i, f := r.Values(iter, freq)
	if i != "1.500k" {
		t.Errorf("iterations = %q", i)
	}
	if f != "2.500M" {
		t.Errorf("frequency = %q", f)
	}
}
