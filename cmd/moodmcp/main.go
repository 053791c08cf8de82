package main

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/TheHeat/moods/src/tools"
)

func main() {
	s := server.NewMCPServer(
		"moods",
		"1.0.0",
	)

	tools.Register(s)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
