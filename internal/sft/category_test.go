package sft

import (
	"testing"

	"sft-go/internal/model"
)

func TestCategoryForFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     model.Category
	}{
		{"song.mp3", model.CategoryAudio},
		{"song.FLAC", model.CategoryAudio},
		{"photo.jpg", model.CategoryImages},
		{"diagram.svg", model.CategoryImages},
		{"notes.md", model.CategoryText},
		{"main.go", model.CategoryText},
		{"archive.tar.gz", model.CategoryBlobs},
		{"backup.iso", model.CategoryBlobs},
		{"no_extension", model.CategoryUnknown},
		{"weird.xyz", model.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := CategoryForFilename(tt.filename); got != tt.want {
				t.Errorf("CategoryForFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestBarcodeFilename(t *testing.T) {
	t.Parallel()

	got := barcodeFilename("report.pdf", "abc-123")
	want := "report._._.abc-123.-.-.pdf"
	if got != want {
		t.Errorf("barcodeFilename = %q, want %q", got, want)
	}

	got = barcodeFilename("README", "abc-123")
	want = "README._._.abc-123"
	if got != want {
		t.Errorf("barcodeFilename without extension = %q, want %q", got, want)
	}
}
