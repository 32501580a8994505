package extract

import "testing"

func TestExtractTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "keyword line with amount",
			lines: []string{"Latte", "12.50", "TOTAL RM 15.90"},
			want:  "15.90",
		},
		{
			name:  "amount on following line",
			lines: []string{"Latte", "TOTAL", "15.90"},
			want:  "15.90",
		},
		{
			name:  "amount two lines below keyword",
			lines: []string{"GRAND TOTAL", "thank you", "15.90"},
			want:  "15.90",
		},
		{
			name:  "last keyword line wins",
			lines: []string{"TOTAL", "5.00", "GRAND TOTAL", "15.90"},
			want:  "15.90",
		},
		{
			name:  "subtotal keyword ignored, max fallback",
			lines: []string{"SUBTOTAL", "10.00", "bread", "12.90"},
			want:  "12.90",
		},
		{
			name:  "fallback picks maximum plausible",
			lines: []string{"Latte 12.50", "Muffin 8.00", "38.20"},
			want:  "38.20",
		},
		{
			name:  "fallback skips date and time lines",
			lines: []string{"05/06/2025", "10:45", "9.90"},
			want:  "9.90",
		},
		{
			name:  "implausible amounts rejected",
			lines: []string{"TOTAL", "999999.00"},
			want:  "",
		},
		{
			name:  "spaced decimal: integer part wins at keyword stage",
			lines: []string{"TOTAL 12 . 50"},
			want:  "12.00",
		},
		{
			name:  "amount due keyword",
			lines: []string{"AMOUNT DUE", "23.10"},
			want:  "23.10",
		},
		{
			name:  "nothing found",
			lines: []string{"hello there"},
			want:  "",
		},
		{
			name:  "empty input",
			lines: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTotal(tt.lines); got != tt.want {
				t.Errorf("ExtractTotal(%v) = %q, want %q", tt.lines, got, tt.want)
			}
		})
	}
}

func TestHasTotalKeyword(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"TOTAL", true},
		{"GRAND TOTAL", true},
		{"AMOUNT DUE", true},
		{"BALANCE DUE", true},
		{"SUBTOTAL", false},
		{"subtotal rm", false},
		{"latte", false},
	}

	for _, tt := range tests {
		if got := hasTotalKeyword(tt.line); got != tt.want {
			t.Errorf("hasTotalKeyword(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
