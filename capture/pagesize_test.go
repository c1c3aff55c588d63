package capture

import (
	"math"
	"testing"
)

func TestPaperSize(t *testing.T) {
	tests := []struct {
		format     string
		wantWidth  float64
		wantHeight float64
	}{
		{"A4", 8.27, 11.7},
		{"a4", 8.27, 11.7},
		{"Letter", 8.5, 11},
		{"LEGAL", 8.5, 14},
		{"Tabloid", 11, 17},
		{"bogus", 8.27, 11.7}, // unknown falls back to A4
		{"", 8.27, 11.7},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, h := paperSize(tt.format)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("paperSize(%q) = %v×%v, want %v×%v",
					tt.format, w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestCmToInches(t *testing.T) {
	if got := cmToInches(2.54); got != 1 {
		t.Errorf("cmToInches(2.54) = %v, want 1", got)
	}
	if got := cmToInches(1); math.Abs(got-0.3937) > 0.0001 {
		t.Errorf("cmToInches(1) = %v, want ≈0.3937", got)
	}
}
