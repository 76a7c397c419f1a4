// Package cli implements the taskboard command-line interface using Cobra.
// Subcommands either talk to the task API (login, tasks, dashboard) or run
// the API itself (serve).
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taskboard/internal/api"
	"taskboard/internal/config"
	"taskboard/internal/session"
)

var serverFlag string

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Taskboard — team tasks from the terminal",
	Long: `Taskboard is a task-management client for the taskboard REST API.

Log in once, then manage tasks from subcommands or the interactive
dashboard. "taskboard serve" runs the API server itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "API server URL (overrides config)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env bundles everything a client command needs.
type env struct {
	cfg    config.Config
	logger *logrus.Logger
	store  *session.Store
	client *api.Client
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	credPath := cfg.Client.CredentialsPath
	if credPath == "" {
		credPath, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store := session.NewStore(credPath)

	baseURL := serverFlag
	if baseURL == "" {
		baseURL = cfg.Client.ServerURL
	}
	client := api.New(baseURL, store,
		api.WithLogger(logger),
		api.WithTimeout(time.Duration(cfg.Client.TimeoutSeconds)*time.Second),
	)

	return &env{cfg: cfg, logger: logger, store: store, client: client}, nil
}

// friendly rewrites API failures into actionable messages. A rejected token
// additionally drops the stored session, so the next command starts clean.
func (e *env) friendly(err error) error {
	if err == nil {
		return nil
	}
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		e.store.Invalidate()
		return fmt.Errorf("%s — run `taskboard login`", authErr.Reason)
	}
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("could not reach the server: %v", netErr.Err)
	}
	return err
}

func prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// shortID trims uuids down to something scannable in list output. Full ids
// are still accepted everywhere an id is taken.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
