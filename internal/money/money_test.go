package money

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "decimal comma", raw: "38,02", want: 38.02},
		{name: "thousands comma with dot", raw: "1,234.50", want: 1234.50},
		{name: "plain decimal", raw: "12.50", want: 12.50},
		{name: "integer", raw: "170", want: 170},
		{name: "ringgit prefix", raw: "RM 10.00", want: 10.00},
		{name: "dollar prefix", raw: "$29.90", want: 29.90},
		{name: "currency code", raw: "MYR 5,50", want: 5.50},
		{name: "trailing decimal point", raw: "38,", want: 38},
		{name: "empty", raw: "", wantErr: true},
		{name: "currency only", raw: "RM", wantErr: true},
		{name: "garbage", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.raw, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsPlausible(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0, false},
		{-1, false},
		{0.01, true},
		{99999.99, true},
		{100000, true},
		{100000.01, false},
	}

	for _, tt := range tests {
		if got := IsPlausible(tt.v); got != tt.want {
			t.Errorf("IsPlausible(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(5.5); got != "5.50" {
		t.Errorf("Format(5.5) = %q, want \"5.50\"", got)
	}
	if got := Format(1234.5); got != "1234.50" {
		t.Errorf("Format(1234.5) = %q, want \"1234.50\"", got)
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		line  string
		match bool
	}{
		{"TOTAL RM 12.50", true},
		{"1,234.50", true},
		{"Grande Latte", false},
		{"x 1.35", true},
	}

	for _, tt := range tests {
		if got := Pattern.MatchString(tt.line); got != tt.match {
			t.Errorf("Pattern.MatchString(%q) = %v, want %v", tt.line, got, tt.match)
		}
	}
}
