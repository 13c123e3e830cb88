package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prompt-scrape-go/pkg/cli/logger"
	"prompt-scrape-go/pkg/cli/tui"
	"prompt-scrape-go/pkg/config"
	"prompt-scrape-go/pkg/gateway"
	"prompt-scrape-go/pkg/models"
	"prompt-scrape-go/pkg/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
)

type App struct {
	cfg    *config.Config
	client *gateway.Client
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
	}
}

// getClient returns the submission client, creating it if necessary
func (a *App) getClient() (*gateway.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.BaseURL == "" {
		return nil, fmt.Errorf("base URL not configured")
	}

	a.client = gateway.NewClient(a.cfg.CLI.BaseURL, time.Duration(a.cfg.CLI.SubmitTimeout)*time.Second)
	return a.client, nil
}

// ShowConfig displays the current configuration
func (a *App) ShowConfig() {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		fmt.Printf("Error marshaling config: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "cli.base_url=http://localhost:8080")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]

	switch section {
	case "api":
		switch key {
		case "host":
			a.cfg.API.Host = value
		case "port":
			var port int
			if _, err := fmt.Sscanf(value, "%d", &port); err != nil {
				return fmt.Errorf("invalid port value: %s", value)
			}
			a.cfg.API.Port = port
		case "backend_origin":
			a.cfg.API.BackendOrigin = value
		default:
			return fmt.Errorf("unknown api key: %s", key)
		}
	case "cli":
		switch key {
		case "base_url":
			a.cfg.CLI.BaseURL = value
		case "submit_timeout":
			var timeout int
			if _, err := fmt.Sscanf(value, "%d", &timeout); err != nil {
				return fmt.Errorf("invalid timeout value: %s", value)
			}
			a.cfg.CLI.SubmitTimeout = timeout
		case "default_max_pages":
			var pages int
			if _, err := fmt.Sscanf(value, "%d", &pages); err != nil {
				return fmt.Errorf("invalid page value: %s", value)
			}
			a.cfg.CLI.DefaultMaxPages = pages
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	case "engine":
		switch key {
		case "host":
			a.cfg.Engine.Host = value
		case "port":
			var port int
			if _, err := fmt.Sscanf(value, "%d", &port); err != nil {
				return fmt.Errorf("invalid port value: %s", value)
			}
			a.cfg.Engine.Port = port
		case "openai_api_key":
			a.cfg.Engine.OpenAIAPIKey = value
		case "openai_model":
			a.cfg.Engine.OpenAIModel = value
		default:
			return fmt.Errorf("unknown engine key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return config.Save(a.cfg)
}

// Run starts the interactive TUI
func (a *App) Run() error {
	client, err := a.getClient()
	if err != nil {
		return err
	}

	defer logger.CloseLog()
	logger.Log("starting TUI against %s", a.cfg.CLI.BaseURL)

	model := tui.NewScrapeForm(client, a.cfg.CLI.SubmitTimeout)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.LogError(err, "TUI exited")
		return err
	}
	return nil
}

// RunOnce submits a single prompt and prints the rendered result to stdout.
// format overrides intent detection when non-empty.
func (a *App) RunOnce(prompt string, maxPages int, format string, withDetails bool) error {
	client, err := a.getClient()
	if err != nil {
		return err
	}

	if maxPages <= 0 {
		maxPages = a.cfg.CLI.DefaultMaxPages
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.CLI.SubmitTimeout)*time.Second)
	defer cancel()

	resp, err := client.SubmitJob(ctx, prompt, maxPages)
	if err != nil {
		if submitErr, ok := err.(*gateway.SubmitError); ok {
			return fmt.Errorf("%s", submitErr.UserMessage())
		}
		return err
	}

	fields := render.AggregateFields(resp.Items)

	var mode models.DisplayMode
	if format != "" {
		mode = models.DisplayMode(format)
		known := false
		for _, candidate := range models.DisplayModes {
			if mode == candidate {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown format %q (expected list, table, json or csv)", format)
		}
		if !render.ModeAvailable(mode, fields) {
			return fmt.Errorf("format %q is not available for this result", format)
		}
	} else {
		mode = render.EffectiveMode(render.DetectMode(prompt), fields)
	}

	fmt.Println(render.Render(mode, resp.Items, fields))
	if withDetails {
		fmt.Println()
		fmt.Println(render.JobDetails(resp))
	}
	return nil
}
