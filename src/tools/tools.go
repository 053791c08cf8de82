// Package tools exposes the chart layout and renderer as MCP tools.
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/render"
)

// Register registers all tools with the MCP server.
func Register(s *server.MCPServer) {
	registerStackLayoutTool(s)
	registerRenderChartTool(s)
}

func registerStackLayoutTool(s *server.MCPServer) {
	tool := mcp.NewTool("stack_layout",
		mcp.WithDescription("Loads a mood-cycle CSV and reports the stacked layout: record count, stack maximum and, for the day nearest to 'day', each key's band plus the tooltip total over visible keys."),
		mcp.WithString("csv_path",
			mcp.Required(),
			mcp.Description("Path to the CSV file (day,dayLabel,varName,Threat,Harm,Challenge,Benefit)"),
		),
		mcp.WithString("hidden",
			mcp.Description("Comma separated series keys to hide, e.g. \"Harm,Benefit\""),
		),
		mcp.WithNumber("day",
			mcp.Description("Day to inspect; the nearest record is used. Defaults to the first day"),
		),
	)
	s.AddTool(tool, stackLayoutHandler)
}

func registerRenderChartTool(s *server.MCPServer) {
	tool := mcp.NewTool("render_chart",
		mcp.WithDescription("Renders the stacked or line chart for a mood-cycle CSV to a PNG or SVG file."),
		mcp.WithString("csv_path",
			mcp.Required(),
			mcp.Description("Path to the CSV file"),
		),
		mcp.WithString("mode",
			mcp.Description("'stacked' (default) or 'lines'"),
		),
		mcp.WithString("hidden",
			mcp.Description("Comma separated series keys to hide"),
		),
		mcp.WithString("output_path",
			mcp.Description("Output file; .png or .svg. Defaults to <csv name>-<mode>.png next to the CSV"),
		),
	)
	s.AddTool(tool, renderChartHandler)
}

func stringArg(request mcp.CallToolRequest, name string) string {
	v, _ := request.Params.Arguments[name].(string)
	return strings.TrimSpace(v)
}

// loadView reads csv_path and hidden and builds a controller for mode.
func loadView(request mcp.CallToolRequest, mode layout.Mode) (*interact.Controller, string, error) {
	path := stringArg(request, "csv_path")
	if path == "" {
		return nil, "", fmt.Errorf("csv_path is required")
	}
	vis, err := layout.HiddenFrom(stringArg(request, "hidden"))
	if err != nil {
		return nil, path, err
	}
	recs, err := moods.LoadCSV(path)
	if err != nil {
		return nil, path, err
	}
	d := render.DefaultOptions()
	ctrl := interact.New(recs, mode, interact.DefaultFrame(d.Width, d.Height))
	ctrl.SetVisibleSet(vis)
	return ctrl, path, nil
}

func stackLayoutHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctrl, _, err := loadView(request, layout.ModeStack)
	if err != nil {
		return newToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(Summary(ctrl, dayArg(request, ctrl.Records()))), nil
}

func dayArg(request mcp.CallToolRequest, recs []moods.Record) float64 {
	if v, ok := request.Params.Arguments["day"].(float64); ok {
		return v
	}
	if len(recs) > 0 {
		return float64(recs[0].Day)
	}
	return 0
}

// Summary describes the layout around the record nearest to day.
func Summary(ctrl *interact.Controller, day float64) string {
	v := ctrl.View()
	var b strings.Builder
	fmt.Fprintf(&b, "Records: %d\n", len(v.Records))
	fmt.Fprintf(&b, "Mode: %s\n", v.Mode)
	fmt.Fprintf(&b, "Visible: %s\n", visibleLabel(v.Visible))
	fmt.Fprintf(&b, "Max: %.2f (axis %.2f)\n", v.Layout.Max, v.ValueMax)
	idx, ok := layout.Nearest(v.Records, day)
	if !ok {
		b.WriteString("No records.\n")
		return b.String()
	}
	rec := v.Records[idx]
	fmt.Fprintf(&b, "\nNearest to %.2f: %s\n", day, rec.Title())
	for _, s := range v.Layout.Series {
		if v.Mode == layout.ModeStack {
			band := s.Bands[idx]
			fmt.Fprintf(&b, "  %-9s [%.2f, %.2f]%s\n", s.Key, band.Lower, band.Upper, hiddenMark(s.Visible))
			continue
		}
		fmt.Fprintf(&b, "  %-9s %.2f%s\n", s.Key, s.Points[idx].Value, hiddenMark(s.Visible))
	}
	tip := interact.BuildTooltip(rec, v.Visible)
	fmt.Fprintf(&b, "Total (visible): %.2f\n", tip.Total)
	return b.String()
}

func visibleLabel(v layout.VisibleSet) string {
	if v.Empty() {
		return "(none)"
	}
	return v.String()
}

func hiddenMark(visible bool) string {
	if visible {
		return ""
	}
	return " (hidden)"
}

func renderChartHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := layout.ModeStack
	if m := stringArg(request, "mode"); m != "" {
		parsed, err := layout.ParseMode(m)
		if err != nil {
			return newToolResultError(err.Error()), nil
		}
		mode = parsed
	}
	ctrl, csvPath, err := loadView(request, mode)
	if err != nil {
		return newToolResultError(err.Error()), nil
	}

	outputPath := stringArg(request, "output_path")
	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
		outputPath = filepath.Join(filepath.Dir(csvPath), fmt.Sprintf("%s-%s.png", base, mode))
	}
	if err := WriteChart(outputPath, ctrl.View(), render.DefaultOptions()); err != nil {
		return newToolResultError(fmt.Sprintf("failed to render chart: %v", err)), nil
	}
	summary := fmt.Sprintf("Chart rendered successfully!\n\nOutput: %s\nMode: %s\nVisible: %s\nRecords: %d\n",
		outputPath, mode, visibleLabel(ctrl.Visible()), len(ctrl.Records()))
	return mcp.NewToolResultText(summary), nil
}

// WriteChart renders v to path; the extension picks SVG or PNG.
func WriteChart(path string, v interact.View, opts render.Options) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported output extension %q (want .png or .svg)", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if ext == ".svg" {
		_, err = render.SVG(f, v, opts)
	} else {
		_, err = render.PNG(f, v, opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func newToolResultError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: message,
			},
		},
		IsError: true,
	}
}
