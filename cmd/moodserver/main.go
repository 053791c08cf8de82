package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/TheHeat/moods/src/config"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var file, host string
	var port int
	var debug bool
	flag.StringVar(&file, "file", cfg.Data.Path, "Path to the mood CSV")
	flag.StringVar(&host, "host", cfg.HTTP.Host, "Listen host")
	flag.IntVar(&port, "port", cfg.HTTP.Port, "Listen port")
	flag.BoolVar(&debug, "debug", false, "Gin debug mode and debug logging")
	flag.Parse()

	cfg.Data.Path, cfg.HTTP.Host, cfg.HTTP.Port = file, host, port
	moods.SetLogLevel(cfg.LogLevel)
	if debug {
		moods.SetLogLevel("debug")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	recs, err := moods.LoadCSV(cfg.Data.Path)
	if err != nil {
		moods.Errorf("[server] %v", err)
		os.Exit(1)
	}
	moods.Infof("[server] loaded %d records from %s", len(recs), cfg.Data.Path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(recs, cfg.Data.Path, cfg.Chart.RenderOptions())
	if err := srv.Run(ctx, cfg.HTTP.Addr()); err != nil {
		moods.Errorf("[server] %v", err)
		os.Exit(1)
	}
}
