package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/TheHeat/moods/src/config"
	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var file, modeName, hidden string
	var day float64
	var list bool
	flag.StringVar(&file, "file", cfg.Data.Path, "Path to the mood CSV")
	flag.StringVar(&modeName, "mode", "stacked", "View: stacked or lines")
	flag.StringVar(&hidden, "hidden", "", "Comma separated keys to hide, e.g. Harm,Benefit")
	flag.Float64Var(&day, "day", -1, "Day to inspect (nearest record); default first day")
	flag.BoolVar(&list, "records", false, "Print every record")
	flag.Parse()
	moods.SetLogLevel(cfg.LogLevel)

	mode, err := layout.ParseMode(modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	vis, err := layout.HiddenFrom(hidden)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	recs, err := moods.LoadCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if list {
		for _, r := range recs {
			fmt.Printf("%-4d %-10s T=%.2f H=%.2f C=%.2f B=%.2f\n", r.Day, r.DayLabel, r.Threat, r.Harm, r.Challenge, r.Benefit)
		}
		fmt.Println()
	}
	ctrl := interact.New(recs, mode, interact.DefaultFrame(cfg.Chart.Width, cfg.Chart.Height))
	ctrl.SetVisibleSet(vis)
	if day < 0 && len(recs) > 0 {
		day = float64(recs[0].Day)
	}
	fmt.Print(tools.Summary(ctrl, day))
	if idx, ok := layout.Nearest(recs, day); ok {
		fmt.Println()
		fmt.Println(interact.BuildTooltip(recs[idx], vis).String())
	}
}
