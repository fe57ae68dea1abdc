package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/df07/go-sky-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of YAML scene files")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir)

	slog.Info("sky path tracer web server", "port", *port, "scenes", *scenesDir)

	if err := webServer.Start(); err != nil {
		slog.Error("error starting server", "error", err)
		os.Exit(1)
	}
}
