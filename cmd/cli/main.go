package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"prompt-scrape-go/pkg/cli"
	"prompt-scrape-go/pkg/config"
)

func main() {
	var (
		prompt  = flag.String("prompt", "", "Submit a single scraping request and print the result")
		pages   = flag.Int("pages", 0, "Maximum number of pages to scrape (0 uses the configured default)")
		format  = flag.String("format", "", "Output format for -prompt: list, table, json or csv (default: inferred)")
		details = flag.Bool("details", false, "Print plan and metadata after the result (with -prompt)")

		// Config commands
		configShow = flag.Bool("config-show", false, "Show current configuration")
		configSet  = flag.String("config-set", "", "Set a config value (format: section.key=value)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := cli.NewApp(cfg)

	// Handle config commands first
	if *configShow {
		app.ShowConfig()
		return
	}
	if *configSet != "" {
		if err := app.SetConfig(*configSet); err != nil {
			log.Fatalf("failed to set config: %v", err)
		}
		fmt.Println("Configuration updated successfully")
		return
	}

	// One-shot mode: submit, print, exit.
	if *prompt != "" {
		if err := app.RunOnce(*prompt, *pages, *format, *details); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Interactive TUI mode
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
