package formatting_test

import (
	"testing"

	"github.com/ratingsdesk/quorum/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 1, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 1, "2.0 KB"},
		{"megabytes", 1048576, 0, "1 MB"},
		{"fractional megabytes", 1572864, 2, "1.50 MB"},
		{"gigabytes", 3221225472, 1, "3.0 GB"},
		{"negative precision clamped", 2048, -3, "2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "1024", 1024, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "2KB", 2048, false},
		{"megabytes with space", "1 MB", 1048576, false},
		{"lowercase unit", "1mb", 1048576, false},
		{"fractional", "1.5KB", 1536, false},
		{"surrounding whitespace", "  4KB  ", 4096, false},
		{"empty", "", 0, true},
		{"unknown unit", "10XB", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBytes(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	sizes := []int64{1024, 1048576, 5368709120}
	for _, n := range sizes {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q) error = %v", formatted, err)
		}
		if parsed != n {
			t.Errorf("round trip %d -> %q -> %d", n, formatted, parsed)
		}
	}
}
