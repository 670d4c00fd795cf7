package numeric

import (
	"testing"
)

func TestParsePrecision(t *testing.T) {
	testCases := []struct {
		input    string
		expected Precision
		wantErr  bool
	}{
		{"rational", Rational, false},
		{"Float", Float, false},
		{"FLOAT", Float, false},
		{"double", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		p, err := ParsePrecision(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePrecision(%q): unexpected error %v", tc.input, err)
			continue
		}
		if !tc.wantErr && p != tc.expected {
			t.Errorf("ParsePrecision(%q): expected %v, got %v", tc.input, tc.expected, p)
		}
	}
}

func TestPrecision_Text(t *testing.T) {
	for _, p := range []Precision{Rational, Float} {
		text, err := p.MarshalText()
		if err != nil {
			t.Fatal(err)
		}

		var reloaded Precision
		if err := reloaded.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if reloaded != p {
			t.Errorf("expected %v, got %v", p, reloaded)
		}
	}

	if s := Precision(5).String(); s != "invalid" {
		t.Errorf("expected invalid, got %q", s)
	}
}

func TestParseRat(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"3", "3"},
		{"-3/4", "-3/4"},
		{"6/8", "3/4"},
		{"0.25", "1/4"},
		{"1e-3", "1/1000"},
		{" 2 ", "2"},
	}

	for _, tc := range testCases {
		r, err := ParseRat(tc.input)
		if err != nil {
			t.Errorf("ParseRat(%q): %v", tc.input, err)
			continue
		}
		if s := FormatRat(r); s != tc.expected {
			t.Errorf("ParseRat(%q): expected %s, got %s", tc.input, tc.expected, s)
		}
	}

	if _, err := ParseRat("one half"); err == nil {
		t.Error("expected an error for an invalid number")
	}
}

func TestFormat(t *testing.T) {
	r, err := ParseRat("2/3")
	if err != nil {
		t.Fatal(err)
	}
	if s := FormatDecimal(r, 3); s != "0.667" {
		t.Errorf("expected 0.667, got %s", s)
	}
	if f := ToFloat(r); f < 0.6666 || f > 0.6667 {
		t.Errorf("expected 2/3, got %v", f)
	}
}
