package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"warungpos/printerd/internal/config"
	"warungpos/printerd/internal/printer"
	"warungpos/printerd/internal/printer/blescan"
	"warungpos/printerd/internal/printer/serialport"
	"warungpos/printerd/internal/server"
	"warungpos/printerd/internal/settings"
)

func main() {
	cfg := config.Load()

	store, err := settings.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("Couldn't open settings database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var transport printer.Transport
	switch cfg.Transport {
	case "serial":
		transport = serialport.New()
	default:
		transport = blescan.New()
	}

	session := printer.NewSession(transport, store)
	session.ScanWindow = time.Duration(cfg.ScanSeconds) * time.Second
	session.DefaultPaperWidth = cfg.PaperWidth
	session.Start(context.Background())

	srv := server.New(session, cfg.Token, cfg.AllowedOrigin)

	slog.Info("Printer agent listening", "addr", cfg.Address(), "transport", cfg.Transport)
	if err := http.ListenAndServe(cfg.Address(), srv.Routes()); err != nil {
		slog.Error("Couldn't start server", "error", err)
		os.Exit(1)
	}
}
