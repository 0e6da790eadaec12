package form

import (
	"math"
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/five82/storefront/internal/api"
)

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"1e400", 0},
		{"1.5", 1.5},
		{"  2.25 ", 2.25},
		{"12abc", 12},
		{".5", 0.5},
		{"5.", 5},
		{"-3", -3},
		{"1e2", 100},
		{"1e", 1},
		{"-", 0},
		{".", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseFloat(tc.in); got != tc.want {
				t.Fatalf("ParseFloat(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"7", 7},
		{" 42", 42},
		{"3.7", 3},
		{"10 units", 10},
		{"-2", -2},
		{"+", 0},
		{"99999999999999999999999", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseInt(tc.in); got != tc.want {
				t.Fatalf("ParseInt(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse_NeverNaN(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		f := ParseFloat(raw)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("ParseFloat(%q) = %v, want finite", raw, f)
		}
		_ = ParseInt(raw)
	})
}

func TestParse_RoundTripsFormattedNumbers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "n")
		if got := ParseInt(strconv.Itoa(n)); got != n {
			t.Fatalf("ParseInt(%d) = %d", n, got)
		}
		cents := rapid.IntRange(0, 10_000_000).Draw(t, "cents")
		price := float64(cents) / 100
		if got := ParseFloat(strconv.FormatFloat(price, 'f', 2, 64)); got != price {
			t.Fatalf("ParseFloat(%v) = %v", price, got)
		}
	})
}

func TestDraft_SetCoercesNumericFields(t *testing.T) {
	d := DefaultDraft().
		Set(FieldName, "Pen").
		Set(FieldPrice, "abc").
		Set(FieldStock, "abc")
	if d.Name != "Pen" || d.Price != 0 || d.Stock != 0 {
		t.Fatalf("draft = %#v, want name Pen and zeroed numeric fields", d)
	}

	d = d.Set(FieldPrice, "1.50").Set(FieldStock, "10")
	if d.Price != 1.5 || d.Stock != 10 {
		t.Fatalf("draft = %#v, want price 1.5 stock 10", d)
	}
	if got := d.Value(FieldPrice); got != "1.5" {
		t.Fatalf("Value(price) = %q, want 1.5", got)
	}
}

func TestDraft_PatchFromOnlyChangedFields(t *testing.T) {
	orig := api.Product{ID: 2, Name: "Cup", Price: 3, Stock: 5}
	d := FromProduct(orig)
	if patch := d.PatchFrom(orig); !patch.Empty() {
		t.Fatalf("PatchFrom unchanged = %#v, want empty", patch)
	}

	d = d.Set(FieldStock, "4").Set(FieldDescription, "Ceramic")
	patch := d.PatchFrom(orig)
	if patch.Name != nil || patch.Price != nil {
		t.Fatalf("patch = %#v, want name and price omitted", patch)
	}
	if patch.Stock == nil || *patch.Stock != 4 {
		t.Fatalf("patch stock = %v, want 4", patch.Stock)
	}
	if patch.Description == nil || *patch.Description != "Ceramic" {
		t.Fatalf("patch description = %v, want Ceramic", patch.Description)
	}
}
