package imagediff

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/ttesting"
)

// sheet places the frames side by side.
func sheet(frames ...image.Image) *image.NRGBA {
	size := frames[0].Bounds().Size()
	out := image.NewNRGBA(image.Rect(0, 0, size.X*len(frames), size.Y))
	for i, f := range frames {
		draw.Draw(out, image.Rect(i*size.X, 0, (i+1)*size.X, size.Y), f, f.Bounds().Min, draw.Src)
	}
	return out
}

func TestDiffIdenticalFrameVanishes(t *testing.T) {
	target := ttesting.Solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 0xFF})
	first := ttesting.Solid(2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 0xFF})
	first.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 0xFF})

	out, err := Diff(sheet(first, target), target)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	ttesting.AssertEqualPoint(t, "size", out.Bounds().Size(), image.Pt(4, 2))

	want := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(want, image.Rect(0, 0, 2, 2), first, image.Point{}, draw.Src)
	want.SetNRGBA(1, 1, color.NRGBA{})
	ttesting.AssertImagesEqual(t, "output", out, want)
}

func TestDiffBlackAndAlpha(t *testing.T) {
	target := ttesting.Solid(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 0xFF})
	source := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	source.SetNRGBA(0, 0, color.NRGBA{A: 0xFF})                      // black
	source.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 0x40})    // same RGB, other alpha
	source.SetNRGBA(2, 0, color.NRGBA{R: 90, G: 80, B: 70, A: 0x40}) // different

	out, err := Diff(source, target)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if c := out.RGBAAt(0, 0); c != (color.RGBA{}) {
		t.Errorf("black pixel: got %v; want transparent", c)
	}
	if c := out.RGBAAt(1, 0); c != (color.RGBA{}) {
		t.Errorf("matching pixel: got %v; want transparent", c)
	}
	if c := out.RGBAAt(2, 0); c != (color.RGBA{R: 90, G: 80, B: 70, A: 0xFF}) {
		t.Errorf("differing pixel: got %v; want opaque copy", c)
	}
}

func TestDiffSizeMismatch(t *testing.T) {
	tests := []struct {
		name           string
		source, target image.Point
	}{
		{"width not a multiple", image.Pt(5, 2), image.Pt(2, 2)},
		{"height not a multiple", image.Pt(4, 3), image.Pt(2, 2)},
		{"source smaller", image.Pt(1, 1), image.Pt(2, 2)},
		{"empty target", image.Pt(2, 2), image.Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Diff(image.NewNRGBA(image.Rectangle{Max: tt.source}), image.NewNRGBA(image.Rectangle{Max: tt.target}))
			if !errors.Is(err, ErrSizeMismatch) {
				t.Errorf("got %v; want ErrSizeMismatch", err)
			}
		})
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDiffFiles(t *testing.T) {
	dir := t.TempDir()
	target := ttesting.Numbered(2, 2, 1)
	writePNG(t, filepath.Join(dir, "source.png"), sheet(ttesting.Numbered(2, 2, 2), target))
	writePNG(t, filepath.Join(dir, "target.png"), target)

	out := filepath.Join(dir, "out.png")
	if err := DiffFiles(filepath.Join(dir, "source.png"), filepath.Join(dir, "target.png"), out); err != nil {
		t.Fatalf("DiffFiles: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	want := sheet(ttesting.Numbered(2, 2, 2), image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	ttesting.AssertImagesEqual(t, "output", img, want)

	if err := DiffFiles(filepath.Join(dir, "missing.png"), filepath.Join(dir, "target.png"), out); err == nil {
		t.Errorf("DiffFiles with a missing source succeeded")
	}
}
