package inanna

import "testing"

func TestTemplateNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template Template
		want     Template
	}{
		{name: "known template passes", template: TemplateZ, want: TemplateZ},
		{name: "fullscreen passes", template: TemplateFullscreen, want: TemplateFullscreen},
		{name: "unknown becomes a", template: Template("zzz"), want: TemplateA},
		{name: "empty becomes a", template: Template(""), want: TemplateA},
		{name: "case matters", template: Template("A"), want: TemplateA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.template.Normalize(); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestTemplateGeometryShares(t *testing.T) {
	t.Parallel()

	tests := []struct {
		template    Template
		wantContent int
		wantMedia   int
	}{
		{TemplateZ, 52, 48},
		{TemplateY, 52, 48},
		{TemplateG, 70, 30},
		{TemplateH, 70, 30},
		{TemplateE, 78, 22},
		{TemplateF, 78, 22},
		{TemplateB, 76, 24},
		{TemplateC, 76, 24},
		{TemplateD, 50, 50},
		{TemplateI, 50, 50},
		{Template("unknown"), 0, 0}, // a: content only
	}

	for _, tt := range tests {
		content, media := TemplateGeometryShares(tt.template)
		if content != tt.wantContent || media != tt.wantMedia {
			t.Errorf("TemplateGeometryShares(%q) = (%d, %d), want (%d, %d)",
				tt.template, content, media, tt.wantContent, tt.wantMedia)
		}
	}
}

func TestCropSelectionClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		crop CropSelection
		want CropSelection
	}{
		{
			name: "inside bounds unchanged",
			crop: CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
			want: CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
		},
		{
			name: "x at image width clamps to last column",
			crop: CropSelection{X: 100, Y: 0, Width: 50, Height: 50},
			want: CropSelection{X: 99, Y: 0, Width: 1, Height: 50},
		},
		{
			name: "negative origin clamps to zero",
			crop: CropSelection{X: -5, Y: -5, Width: 20, Height: 20},
			want: CropSelection{X: 0, Y: 0, Width: 20, Height: 20},
		},
		{
			name: "oversized selection shrinks to fit",
			crop: CropSelection{X: 60, Y: 60, Width: 100, Height: 100},
			want: CropSelection{X: 60, Y: 60, Width: 40, Height: 20},
		},
		{
			name: "zero size becomes one pixel",
			crop: CropSelection{X: 0, Y: 0, Width: 0, Height: 0},
			want: CropSelection{X: 0, Y: 0, Width: 1, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.crop.Clamp(100, 80)
			if got != tt.want {
				t.Errorf("Clamp(100, 80) = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCropSelectionToSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		crop  CropSelection
		scale float64
		want  CropSelection
	}{
		{
			name:  "half scale doubles coordinates",
			crop:  CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
			scale: 0.5,
			want:  CropSelection{X: 20, Y: 40, Width: 60, Height: 80},
		},
		{
			name:  "unit scale is identity",
			crop:  CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
			scale: 1,
			want:  CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
		},
		{
			name:  "rounding to nearest",
			crop:  CropSelection{X: 1, Y: 1, Width: 1, Height: 1},
			scale: 0.3,
			want:  CropSelection{X: 3, Y: 3, Width: 3, Height: 3},
		},
		{
			name:  "zero scale leaves selection alone",
			crop:  CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
			scale: 0,
			want:  CropSelection{X: 10, Y: 20, Width: 30, Height: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.crop.ToSource(tt.scale)
			if got != tt.want {
				t.Errorf("ToSource(%v) = %+v, want %+v", tt.scale, got, tt.want)
			}
		})
	}
}
