package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/render"
)

// RunScreenshotsMode renders both views of filePath and writes them as PNGs
// under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(filePath, outDir string, opts render.Options) error {
	if filePath == "" {
		filePath = moods.DefaultDataFile
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	recs, err := moods.LoadCSV(filePath)
	if err != nil {
		return err
	}
	st := &uiState{filePath: filePath, records: recs, opts: opts, showHints: opts.Hints}
	toRender := []struct {
		name string
		mode layout.Mode
	}{
		{"moods_stacked.png", layout.ModeStack},
		{"moods_lines.png", layout.ModeLine},
	}
	for _, it := range toRender {
		v := &chartView{mode: it.mode}
		v.ctrl = interact.New(recs, it.mode, interact.DefaultFrame(opts.Width, opts.Height))
		img := renderView(st, v)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode %s: %w", it.name, err)
		}
		out := filepath.Join(outDir, it.name)
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		moods.Infof("[screenshots] wrote %s", out)
	}
	return nil
}
