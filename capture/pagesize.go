package capture

import "strings"

// Paper dimensions in inches, portrait orientation. These match the page
// format names Chrome's print-to-PDF accepts; landscape is handled by the
// Landscape print flag, not by swapping dimensions here.
var paperSizes = map[string][2]float64{
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
	"ledger":  {17, 11},
	"a0":      {33.1, 46.8},
	"a1":      {23.4, 33.1},
	"a2":      {16.54, 23.4},
	"a3":      {11.7, 16.54},
	"a4":      {8.27, 11.7},
	"a5":      {5.83, 8.27},
	"a6":      {4.13, 5.83},
}

// paperSize resolves a page format name to width/height in inches.
// Unknown formats fall back to A4.
func paperSize(format string) (width, height float64) {
	size, ok := paperSizes[strings.ToLower(format)]
	if !ok {
		size = paperSizes["a4"]
	}
	return size[0], size[1]
}

// cmToInches converts centimeters to the inches CDP expects for margins.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}
