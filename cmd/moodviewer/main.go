package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/TheHeat/moods/cmd/moodviewer/uihelpers"
	"github.com/TheHeat/moods/src/config"
	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/render"
)

// chartView is one tab: a controller plus the widgets that show it.
type chartView struct {
	mode    layout.Mode
	ctrl    *interact.Controller
	img     *canvas.Image
	overlay *hoverOverlay
	checks  map[moods.SeriesKey]*widget.Check
	swatch  map[moods.SeriesKey]*canvas.Rectangle
	// syncing suppresses check callbacks while the UI mirrors the controller
	syncing bool
}

type uiState struct {
	app      fyne.App
	window   fyne.Window
	filePath string
	records  []moods.Record

	opts      render.Options
	showHints bool

	stacked *chartView
	lines   *chartView

	fileLabel   *widget.Label
	statusLabel *widget.Label
}

func (s *uiState) views() []*chartView {
	var out []*chartView
	for _, v := range []*chartView{s.stacked, s.lines} {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var fileFlag, shotsDir string
	flag.StringVar(&fileFlag, "file", "", "Path to the mood CSV (defaults to the last opened file)")
	flag.StringVar(&shotsDir, "screenshots", "", "Render both views as PNGs into this directory and exit")
	flag.Parse()
	moods.SetLogLevel(cfg.LogLevel)

	if shotsDir != "" {
		file := fileFlag
		if file == "" {
			file = cfg.Data.Path
		}
		if err := RunScreenshotsMode(file, shotsDir, cfg.Chart.RenderOptions()); err != nil {
			fmt.Fprintf(os.Stderr, "screenshots: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.moods.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Mood Cycle Viewer")
	w.Resize(fyne.NewSize(1100, 760))

	state := &uiState{
		app:       a,
		window:    w,
		filePath:  fileFlag,
		opts:      cfg.Chart.RenderOptions(),
		showHints: a.Preferences().BoolWithFallback("showHints", cfg.Chart.Hints),
	}
	state.fileLabel = widget.NewLabel(uihelpers.TruncatePath(state.filePath, 60))
	state.statusLabel = widget.NewLabel("")

	state.stacked = newChartView(state, layout.ModeStack)
	state.lines = newChartView(state, layout.ModeLine)

	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state) }),
		widget.NewButton("Reload", func() { loadAll(state) }),
		hintsChk,
		widget.NewLabel("File:"), state.fileLabel,
		state.statusLabel,
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Stacked", viewContent(state.stacked)),
		container.NewTabItem("Lines", viewContent(state.lines)),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		if state.app != nil {
			state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
		}
	}
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	// Redraw charts on window resize so they scale with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawCharts(state) })
					}
				}
			}
		}()
	}

	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawCharts(state)
	}

	buildMenus(state)
	loadPrefs(state, tabs)
	if state.filePath == "" {
		state.filePath = cfg.Data.Path
	}
	loadAll(state)

	w.ShowAndRun()
}

func newChartView(state *uiState, mode layout.Mode) *chartView {
	v := &chartView{
		mode:   mode,
		ctrl:   interact.New(nil, mode, state.opts.PaddedFrame()),
		checks: make(map[moods.SeriesKey]*widget.Check, len(moods.Keys)),
		swatch: make(map[moods.SeriesKey]*canvas.Rectangle, len(moods.Keys)),
	}
	v.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	v.img.FillMode = canvas.ImageFillContain
	v.img.SetMinSize(fyne.NewSize(900, 420))
	v.overlay = newHoverOverlay(v)
	for _, k := range moods.Keys {
		k := k
		sw := canvas.NewRectangle(swatchColor(mode, k, true))
		sw.SetMinSize(fyne.NewSize(14, 14))
		v.swatch[k] = sw
		chk := widget.NewCheck(string(k), func(on bool) {
			if v.syncing {
				return
			}
			v.ctrl.SetVisible(k, on)
		})
		chk.SetChecked(true)
		v.checks[k] = chk
	}
	// every visibility change re-renders this view and persists it
	v.ctrl.OnChange = func(interact.View) {
		syncLegend(v)
		savePrefs(state)
		redrawView(state, v)
	}
	return v
}

// viewContent lays out the legend row above the chart with its hover overlay.
func viewContent(v *chartView) fyne.CanvasObject {
	legend := container.NewHBox(widget.NewLabel("Legend:"))
	for _, k := range moods.Keys {
		legend.Add(container.NewHBox(container.NewCenter(v.swatch[k]), v.checks[k]))
	}
	chartArea := container.NewStack(v.img, v.overlay)
	return container.NewBorder(legend, nil, nil, nil, container.NewVScroll(chartArea))
}

// syncLegend mirrors the controller's visible set into the checkboxes and dims
// the swatch of hidden keys.
func syncLegend(v *chartView) {
	vis := v.ctrl.Visible()
	v.syncing = true
	defer func() { v.syncing = false }()
	for _, k := range moods.Keys {
		on := vis.Has(k)
		if chk := v.checks[k]; chk != nil && chk.Checked != on {
			chk.SetChecked(on)
		}
		if sw := v.swatch[k]; sw != nil {
			sw.FillColor = swatchColor(v.mode, k, on)
			sw.Refresh()
		}
	}
}

// swatchColor is the legend colour of k, faded when the key is hidden.
func swatchColor(mode layout.Mode, k moods.SeriesKey, on bool) color.RGBA {
	c := render.Color(mode, k)
	a := uint8(255)
	if !on {
		a = 60
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(uihelpers.TruncatePath(f, 60), func() {
			state.filePath = f
			savePrefs(state)
			loadAll(state)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	exportStacked := fyne.NewMenuItem("Export Stacked Chart…", func() { exportChartPNG(state, state.stacked.img, "moods_stacked.png") })
	exportLines := fyne.NewMenuItem("Export Lines Chart…", func() { exportChartPNG(state, state.lines.img, "moods_lines.png") })
	showAll := fyne.NewMenuItem("Show All Series", func() {
		for _, v := range state.views() {
			v.ctrl.SetVisibleSet(layout.AllVisible())
		}
	})
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		exportStacked,
		exportLines,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	viewMenu := fyne.NewMenu("View", showAll)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, viewMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		addRecentFile(state, state.filePath)
		buildMenus(state)
		savePrefs(state)
		loadAll(state)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	d.Show()
}

// loadAll reads the current file and rebuilds both controllers, keeping each
// view's visible set. On error the previous data stays on screen.
func loadAll(state *uiState) {
	if state.filePath == "" {
		return
	}
	defer moods.TimeTrack(time.Now(), "load "+state.filePath)
	recs, err := moods.LoadCSV(state.filePath)
	if err != nil {
		moods.Errorf("[viewer] load %s: %v", state.filePath, err)
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		return
	}
	applyRecords(state, recs)
	if state.fileLabel != nil {
		state.fileLabel.SetText(uihelpers.TruncatePath(state.filePath, 60))
	}
	if state.statusLabel != nil {
		state.statusLabel.SetText(fmt.Sprintf("%d days", len(recs)))
	}
	moods.Infof("[viewer] loaded %d records from %s", len(recs), state.filePath)
	redrawCharts(state)
}

// applyRecords swaps in a new dataset for every view.
func applyRecords(state *uiState, recs []moods.Record) {
	state.records = recs
	for _, v := range state.views() {
		vis := v.ctrl.Visible()
		onChange := v.ctrl.OnChange
		v.ctrl = interact.New(recs, v.mode, v.ctrl.Frame())
		v.ctrl.SetVisibleSet(vis)
		v.ctrl.OnChange = onChange
		syncLegend(v)
	}
}

func redrawCharts(state *uiState) {
	for _, v := range state.views() {
		redrawView(state, v)
	}
}

// redrawView renders one view at the current window size and hands the plot
// box back to its controller so hover hit-testing matches the image.
func redrawView(state *uiState, v *chartView) {
	if v == nil || v.img == nil {
		return
	}
	img := renderView(state, v)
	v.img.Image = img
	b := img.Bounds()
	v.img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	v.img.Refresh()
	if v.overlay != nil {
		v.overlay.Refresh()
	}
}

func renderView(state *uiState, v *chartView) image.Image {
	opts := state.opts
	opts.Width, opts.Height = chartSize(state)
	opts.Hints = state.showHints
	img, geo := render.Image(v.ctrl.View(), opts)
	if geo != nil && geo.Rendered {
		v.ctrl.SetFrame(geo.Frame)
	}
	return img
}

// chartSize computes a chart size based on the current window width.
func chartSize(state *uiState) (int, int) {
	if state == nil {
		d := render.DefaultOptions()
		return d.Width, d.Height
	}
	if state.window == nil || state.window.Canvas() == nil {
		w, h := state.opts.Width, state.opts.Height
		if w <= 0 || h <= 0 {
			d := render.DefaultOptions()
			w, h = d.Width, d.Height
		}
		return w, h
	}
	return uihelpers.ComputeChartDimensions(int(state.window.Canvas().Size().Width))
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	var out []string
	for _, p := range splitRecent(raw) {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func splitRecent(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// pushRecent puts path first and keeps at most max entries.
func pushRecent(list []string, path string, max int) []string {
	out := []string{path}
	for _, f := range list {
		if f != path && len(out) < max {
			out = append(out, f)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	list := pushRecent(recentFiles(state), path, 10)
	state.app.Preferences().SetString("recentFiles", strings.Join(list, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func visiblePrefKey(m layout.Mode) string { return "visible." + m.String() }

// parseVisiblePref restores a stored visible set. A missing or corrupt entry
// means every key is shown.
func parseVisiblePref(raw string, ok bool) layout.VisibleSet {
	if !ok {
		return layout.AllVisible()
	}
	v, err := layout.ParseVisibleSet(raw)
	if err != nil {
		moods.Warnf("[viewer] ignoring stored visibility %q: %v", raw, err)
		return layout.AllVisible()
	}
	return v
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetBool("showHints", state.showHints)
	for _, v := range state.views() {
		prefs.SetString(visiblePrefKey(v.mode), v.ctrl.Visible().String())
	}
}

const unsetPref = "\x00unset"

func loadPrefs(state *uiState, tabs *container.AppTabs) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.filePath == "" {
		state.filePath = prefs.StringWithFallback("lastFile", "")
	}
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
	// read every view's set before applying any: applying fires OnChange,
	// which saves all views and would clobber the ones not yet restored
	views := state.views()
	stored := make([]layout.VisibleSet, len(views))
	for i, v := range views {
		raw := prefs.StringWithFallback(visiblePrefKey(v.mode), unsetPref)
		stored[i] = parseVisiblePref(raw, raw != unsetPref)
	}
	for i, v := range views {
		v.ctrl.SetVisibleSet(stored[i])
		syncLegend(v)
	}
	if tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(tabs.Items) {
			tabs.SelectIndex(idx)
		}
	}
}
