package extract

import "testing"

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "mdy slash", text: "RECEIPT\n5/25/2025", want: "2025-05-25"},
		{name: "mdy two digit year", text: "RECEIPT\n5/25/25", want: "2025-05-25"},
		{name: "dmy dots", text: "RECEIPT\n25.05.2025", want: "2025-05-25"},
		{name: "ymd", text: "RECEIPT\n2025/05/25", want: "2025-05-25"},
		{name: "month name first", text: "RECEIPT\nMay 25, 2025", want: "2025-05-25"},
		{name: "day month name", text: "RECEIPT\n25 May 2025", want: "2025-05-25"},
		{name: "no date", text: "RECEIPT\nTOTAL 12.50", want: ""},
		{name: "ambiguous without ringgit stays mdy", text: "RECEIPT\n05/06/2025", want: "2025-05-06"},
		{name: "ambiguous with ringgit swaps to dmy", text: "RM 10.00\n05/06/2025", want: "2025-06-05"},
		{name: "dashed dmy via second kind", text: "RM 10.00\n25-05-2025", want: "2025-05-25"},
		{name: "invalid calendar day falls through", text: "RECEIPT\n31.04.2025", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDate(tt.text); got != tt.want {
				t.Errorf("ExtractDate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		y, m, d int
		want    bool
	}{
		{2025, 2, 28, true},
		{2025, 2, 29, false},
		{2024, 2, 29, true},
		{2025, 4, 31, false},
		{2025, 13, 1, false},
		{2025, 0, 1, false},
		{2025, 1, 0, false},
	}

	for _, tt := range tests {
		if got := validDate(tt.y, tt.m, tt.d); got != tt.want {
			t.Errorf("validDate(%d, %d, %d) = %v, want %v", tt.y, tt.m, tt.d, got, tt.want)
		}
	}
}
