package wikipedia

import (
	"fmt"
	"testing"
)

func TestFileExtractor_ExtractFiles(t *testing.T) {
	blocklist := []string{"flag", "coat of arms", "seal", "logo", "map", "locator", "location", "emblem"}
	tests := []struct {
		name      string
		max       int
		images    []ImageRef
		wantFiles []string
	}{
		{
			name: "keeps bitmap files in order",
			max:  40,
			images: []ImageRef{
				{NS: 6, Title: "File:Baku skyline.jpg"},
				{NS: 6, Title: "File:Old City.JPEG"},
				{NS: 6, Title: "File:Boulevard.png"},
				{NS: 6, Title: "File:Night.webp"},
			},
			wantFiles: []string{"File:Baku skyline.jpg", "File:Old City.JPEG", "File:Boulevard.png", "File:Night.webp"},
		},
		{
			name: "drops vector graphics and non-files",
			max:  40,
			images: []ImageRef{
				{NS: 6, Title: "File:Commons-logo.svg"},
				{NS: 6, Title: "File:Icon.gif"},
				{NS: 10, Title: "Template:Infobox"},
				{NS: 6, Title: "File:Panorama.jpg"},
			},
			wantFiles: []string{"File:Panorama.jpg"},
		},
		{
			name: "drops blocklisted names case-insensitively",
			max:  40,
			images: []ImageRef{
				{NS: 6, Title: "File:Flag of Azerbaijan.png"},
				{NS: 6, Title: "File:Coat of arms of Baku.jpg"},
				{NS: 6, Title: "File:Azerbaijan Location MAP.png"},
				{NS: 6, Title: "File:Sealand.jpg"},
				{NS: 6, Title: "File:Maiden Tower.jpg"},
			},
			wantFiles: []string{"File:Maiden Tower.jpg"},
		},
		{
			name: "keeps localized file namespaces",
			max:  40,
			images: []ImageRef{
				{NS: 6, Title: "Fayl:Baku skyline.jpg"},
				{NS: 6, Title: "Dosya:Bakü panorama.jpg"},
				{NS: 6, Title: "File:Baku skyline.jpg"},
				{NS: 6, Title: "Fayl:Azərbaycan bayrağı flag.png"},
				{NS: 0, Title: "Fayl:Not really a file.jpg"},
			},
			wantFiles: []string{"Fayl:Baku skyline.jpg", "Dosya:Bakü panorama.jpg", "File:Baku skyline.jpg"},
		},
		{
			name:      "empty listing",
			max:       40,
			images:    nil,
			wantFiles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewFileExtractor(blocklist, tt.max)
			got := ex.ExtractFiles(tt.images)
			if len(got) != len(tt.wantFiles) {
				t.Fatalf("unexpected count: got %d want %d (values: %v)", len(got), len(tt.wantFiles), got)
			}
			for i := range tt.wantFiles {
				if got[i] != tt.wantFiles[i] {
					t.Errorf("idx %d: got %q want %q", i, got[i], tt.wantFiles[i])
				}
			}
		})
	}
}

func TestFileExtractor_Cap(t *testing.T) {
	var images []ImageRef
	for i := 0; i < 60; i++ {
		images = append(images, ImageRef{NS: FileNamespace, Title: fmt.Sprintf("File:Photo %d.jpg", i)})
	}
	got := NewFileExtractor(nil, 40).ExtractFiles(images)
	if len(got) != 40 {
		t.Fatalf("got %d files, want 40", len(got))
	}
	if got[39] != "File:Photo 39.jpg" {
		t.Errorf("last kept file = %q", got[39])
	}
}
