package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"

	"github.com/skrobi/price/pkg/cli/logger"
	"github.com/skrobi/price/pkg/cli/tui"
	"github.com/skrobi/price/pkg/client"
	"github.com/skrobi/price/pkg/config"
	"github.com/skrobi/price/pkg/prices"
)

type App struct {
	cfg    *config.Config
	client *client.Client
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
	}
}

// getClient returns the HTTP client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL not configured")
	}

	timeout := time.Duration(a.cfg.CLI.RequestTimeout) * time.Second
	a.client = client.NewClient(a.cfg.CLI.BaseURL, timeout)
	return a.client, nil
}

func (a *App) throttle() time.Duration {
	return time.Duration(a.cfg.CLI.FetchThrottle) * time.Millisecond
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
// Format: section.key=value (e.g., "cli.base_url=http://localhost:5000")
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
	case "cli":
		switch key {
		case "base_url":
			a.cfg.CLI.BaseURL = value
		case "request_timeout":
			var timeout int
			if _, err := fmt.Sscanf(value, "%d", &timeout); err != nil {
				return fmt.Errorf("invalid timeout value: %s", value)
			}
			a.cfg.CLI.RequestTimeout = timeout
		case "fetch_throttle":
			var throttle int
			if _, err := fmt.Sscanf(value, "%d", &throttle); err != nil {
				return fmt.Errorf("invalid throttle value: %s", value)
			}
			a.cfg.CLI.FetchThrottle = throttle
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	case "stub":
		switch key {
		case "host":
			a.cfg.Stub.Host = value
		case "port":
			var port int
			if _, err := fmt.Sscanf(value, "%d", &port); err != nil {
				return fmt.Errorf("invalid port value: %s", value)
			}
			a.cfg.Stub.Port = port
		default:
			return fmt.Errorf("unknown stub key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return config.Save(a.cfg)
}

// Run starts the interactive TUI.
func (a *App) Run() error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	logger.Log("starting TUI against %s", a.cfg.CLI.BaseURL)

	program := tea.NewProgram(tui.NewRootModel(apiClient, a.throttle()))
	if _, err := program.Run(); err != nil {
		logger.LogError(err, "TUI exited")
		return err
	}
	return nil
}

// FetchAll runs the batch price fetch without the TUI, printing progress
// to stdout. Useful for cron jobs.
func (a *App) FetchAll(ctx context.Context) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	table := prices.NewTable()
	renderer := prices.NewRenderer(table)
	runner := prices.NewRunner(apiClient, renderer, &consoleReporter{}, a.throttle())

	logger.Log("starting headless fetch against %s", a.cfg.CLI.BaseURL)
	return runner.Start(ctx)
}

// Stats prints account statistics.
func (a *App) Stats() {
	apiClient, err := a.getClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	info, err := apiClient.UserInfo(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching account info: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User:           %s\n", info.UserID)
	if info.Mode != "" {
		fmt.Printf("Mode:           %s\n", info.Mode)
	}
	fmt.Printf("Prices scraped: %d\n", info.Stats.PricesScraped)
}

// consoleReporter prints batch progress to stdout for headless runs.
type consoleReporter struct{}

func (r *consoleReporter) Progress(done, total, percent int) {
	fmt.Printf("[%3d%%] %d/%d\n", percent, done, total)
}

func (r *consoleReporter) Log(line string) {
	fmt.Println(line)
	logger.Log("%s", line)
}

func (r *consoleReporter) LogError(line string) {
	fmt.Fprintln(os.Stderr, line)
	logger.Log("ERROR: %s", line)
}

func (r *consoleReporter) Done(outcome prices.Outcome, err error) {
	if err != nil {
		logger.LogError(err, "fetch run failed")
	}
}
