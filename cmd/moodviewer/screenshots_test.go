package main

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/TheHeat/moods/src/render"
)

// TestScreenshots_BothViews renders the sample cycle and checks both files
// decode at the configured size.
func TestScreenshots_BothViews(t *testing.T) {
	out := t.TempDir()
	opts := render.DefaultOptions()
	opts.Width, opts.Height = 640, 320
	if err := RunScreenshotsMode(filepath.Join("..", "..", "src", "moods", "testdata", "moods.csv"), out, opts); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	for _, name := range []string{"moods_stacked.png", "moods_lines.png"} {
		f, err := os.Open(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if cfg.Width != 640 || cfg.Height != 320 {
			t.Fatalf("%s size %dx%d", name, cfg.Width, cfg.Height)
		}
	}
}

func TestScreenshots_MissingFile(t *testing.T) {
	if err := RunScreenshotsMode(filepath.Join(t.TempDir(), "none.csv"), t.TempDir(), render.DefaultOptions()); err == nil {
		t.Fatalf("missing input should fail")
	}
}
