package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"execdesk/internal/backend"
	"execdesk/internal/cli/command"
	"execdesk/internal/cli/config"
	"execdesk/internal/cli/repl"
	"execdesk/pkg/utils/logger"
)

const defaultConfigPath = "configs/cli.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	baseURL := flag.String("base", "", "Override backend base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	history := flag.String("history", "", "Override history file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *history != "" {
		cfg.HistoryFile = *history
	}

	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	commands := command.Registry()
	rl, err := repl.NewReadline(commands, cfg.HistoryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init terminal failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	client := backend.New(cfg.BaseURL, cfg.Timeout)
	session := repl.New(client, commands, rl, rl.Stdout())
	if err := session.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
