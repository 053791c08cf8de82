// Package server is the browser front end: it serves the chart page, the
// rendered charts, tooltip lookups and legend toggles over gin, and pushes
// visibility changes to open pages through a websocket hub.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/render"
)

//go:embed templates/index.html
var templatesFS embed.FS

var modes = []layout.Mode{layout.ModeStack, layout.ModeLine}

// Server holds one controller per view. All controller access goes through mu.
type Server struct {
	mu      sync.Mutex
	source  string
	records []moods.Record
	ctrls   map[layout.Mode]*interact.Controller
	opts    render.Options

	hub    *Hub
	router *gin.Engine
	http   *http.Server
}

// New builds the server for records loaded from source.
func New(records []moods.Record, source string, opts render.Options) *Server {
	s := &Server{
		source: source,
		opts:   opts,
		hub:    NewHub(),
	}
	s.setRecords(records)
	s.router = s.setupRouter()
	return s
}

func (s *Server) setRecords(records []moods.Record) {
	prev := s.ctrls
	s.records = records
	s.ctrls = make(map[layout.Mode]*interact.Controller, len(modes))
	for _, m := range modes {
		c := interact.New(records, m, s.opts.PaddedFrame())
		if p, ok := prev[m]; ok {
			c.SetVisibleSet(p.Visible())
		}
		render.FitFrame(c, s.opts)
		s.ctrls[m] = c
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Hub exposes the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/index.html")))

	router.NoRoute(func(c *gin.Context) {
		RespondWithError(c, http.StatusNotFound, ErrCodeNotFound,
			"Route not found",
			gin.H{
				"available_endpoints": []string{
					"GET /",
					"GET /api/records",
					"POST /api/reload",
					"GET /api/views/:mode/layout",
					"GET /api/views/:mode/chart.svg",
					"GET /api/views/:mode/chart.png",
					"GET /api/views/:mode/tooltip?x=&y=",
					"DELETE /api/views/:mode/tooltip",
					"POST /api/views/:mode/legend/:key",
					"GET /ws",
				},
			}, "")
	})

	router.GET("/", s.handleIndex)
	router.GET("/ws", s.hub.handleWS)

	api := router.Group("/api")
	api.GET("/records", s.handleRecords)
	api.POST("/reload", s.handleReload)

	views := api.Group("/views/:mode")
	views.GET("/layout", s.withController(s.handleLayout))
	views.GET("/chart.svg", s.withController(s.handleChart(false)))
	views.GET("/chart.png", s.withController(s.handleChart(true)))
	views.GET("/tooltip", s.withController(s.handleTooltip))
	views.DELETE("/tooltip", s.withController(s.handleLeave))
	views.POST("/legend/:key", s.withController(s.handleLegend))
	return router
}

type ctrlHandler func(c *gin.Context, mode layout.Mode, ctrl *interact.Controller)

// withController resolves :mode and runs h while holding the server lock.
func (s *Server) withController(h ctrlHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("mode")
		mode, err := layout.ParseMode(raw)
		if err != nil {
			InvalidMode(c, raw)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		h(c, mode, s.ctrls[mode])
	}
}

type legendEntry struct {
	Key   string
	Color string
}

type pageView struct {
	Mode   string
	Title  string
	Legend []legendEntry
}

func (s *Server) handleIndex(c *gin.Context) {
	var views []pageView
	for _, m := range modes {
		pv := pageView{Mode: m.String(), Title: "Mood cycle (" + m.String() + ")"}
		for _, k := range moods.Keys {
			pv.Legend = append(pv.Legend, legendEntry{Key: string(k), Color: render.Hex(m, k)})
		}
		views = append(views, pv)
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Views": views, "Source": s.source})
}

func (s *Server) handleRecords(c *gin.Context) {
	s.mu.Lock()
	recs := s.records
	s.mu.Unlock()
	RespondWithSuccess(c, http.StatusOK, gin.H{"count": len(recs), "records": recs}, "")
}

// handleReload re-reads the dataset from its source path, keeping visibility.
func (s *Server) handleReload(c *gin.Context) {
	if s.source == "" {
		BadRequest(c, "No source file to reload", nil)
		return
	}
	recs, err := moods.LoadCSV(s.source)
	if err != nil {
		var pe *moods.ParseError
		if errors.As(err, &pe) {
			BadRequest(c, "Dataset is malformed", gin.H{"line": pe.Line, "column": pe.Column, "error": err.Error()})
			return
		}
		InternalServerError(c, "Reload failed", err)
		return
	}
	s.mu.Lock()
	s.setRecords(recs)
	s.mu.Unlock()
	s.hub.Publish(Message{Type: "reload", Data: gin.H{"count": len(recs)}})
	RespondWithSuccess(c, http.StatusOK, gin.H{"count": len(recs)}, "reloaded")
}

func visibleKeys(v layout.VisibleSet) []string {
	keys := v.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func (s *Server) handleLayout(c *gin.Context, mode layout.Mode, ctrl *interact.Controller) {
	v := ctrl.View()
	RespondWithSuccess(c, http.StatusOK, gin.H{
		"mode":         mode.String(),
		"visible":      visibleKeys(v.Visible),
		"day_domain":   []float64{v.DayMin, v.DayMax},
		"value_domain": []float64{v.ValueMin, v.ValueMax},
		"frame":        v.Frame,
		"layout":       v.Layout,
	}, "")
}

func (s *Server) handleChart(asPNG bool) ctrlHandler {
	return func(c *gin.Context, mode layout.Mode, ctrl *interact.Controller) {
		var buf bytes.Buffer
		var geo *render.Geometry
		var err error
		contentType := "image/svg+xml"
		if asPNG {
			contentType = "image/png"
			geo, err = render.PNG(&buf, ctrl.View(), s.opts)
		} else {
			geo, err = render.SVG(&buf, ctrl.View(), s.opts)
		}
		if err != nil {
			InternalServerError(c, "Chart render failed", err)
			return
		}
		if geo != nil && geo.Rendered {
			ctrl.SetFrame(geo.Frame)
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

func (s *Server) handleTooltip(c *gin.Context, mode layout.Mode, ctrl *interact.Controller) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		BadRequest(c, "x and y must be numbers", gin.H{"x": c.Query("x"), "y": c.Query("y")})
		return
	}
	RespondWithSuccess(c, http.StatusOK, ctrl.Hover(x, y), "")
}

func (s *Server) handleLeave(c *gin.Context, mode layout.Mode, ctrl *interact.Controller) {
	ctrl.Leave()
	RespondWithSuccess(c, http.StatusOK, ctrl.Tooltip(), "")
}

// handleLegend toggles :key, or sets it when ?on= is given.
func (s *Server) handleLegend(c *gin.Context, mode layout.Mode, ctrl *interact.Controller) {
	key, err := moods.ParseSeriesKey(c.Param("key"))
	if err != nil {
		InvalidSeriesKey(c, c.Param("key"))
		return
	}
	var vis layout.VisibleSet
	if raw, ok := c.GetQuery("on"); ok {
		on, perr := strconv.ParseBool(raw)
		if perr != nil {
			BadRequest(c, "on must be a boolean", gin.H{"on": raw})
			return
		}
		vis = ctrl.SetVisible(key, on)
	} else {
		vis = ctrl.Toggle(key)
	}
	// the value axis may have changed width
	render.FitFrame(ctrl, s.opts)
	data := gin.H{"mode": mode.String(), "visible": visibleKeys(vis), "max": ctrl.Layout().Max}
	s.hub.Publish(Message{Type: "visibility", Mode: mode.String(), Data: data})
	RespondWithSuccess(c, http.StatusOK, data, "")
}

// Run starts the hub and listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	hubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(hubCtx)

	s.http = &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		moods.Infof("[server] listening on http://%s", addr)
		errCh <- s.http.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		moods.Infof("[server] shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}
