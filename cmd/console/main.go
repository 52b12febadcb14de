// Package main starts the terminal operator console.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	consolecmd "github.com/louisbranch/identpanel/internal/cmd/console"
	"github.com/louisbranch/identpanel/internal/platform/config"
)

func main() {
	cfg, err := consolecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit("console", err)
		return
	}
	if cfg.LogFile != "" {
		logFile, err := tea.LogToFile(cfg.LogFile, "[CONSOLE] ")
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer logFile.Close()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consolecmd.Run(ctx, cfg); err != nil {
		log.Printf("console: %v", err)
		config.Exit("console", err)
	}
}
