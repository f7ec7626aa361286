package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/config"
)

// RunInteractiveLogin prompts for a username, calls the login API, and
// persists the issued key.
func RunInteractiveLogin(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	if username == "" {
		return fmt.Errorf("username is required")
	}

	// A previous config may point at a non-default backend.
	existing, _ := config.Load()
	baseURL := existing.ResolvedBaseURL(api.DefaultBaseURL)
	client := api.NewClient(baseURL, "")
	resp, err := client.Login(username)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg := &config.Config{
		APIKey:   resp.APIKey,
		Username: resp.Username,
		Theme:    "dark",
		VimKeys:  true,
	}
	if baseURL != api.DefaultBaseURL {
		cfg.BaseURL = baseURL
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s\n", resp.Username)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `shopos login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the shop backend",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveLogin(os.Stdin, c.OutOrStdout())
		},
	}
}

// loadClient reads the saved config and builds an API client from it.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("not logged in: %w", err)
	}
	return cfg, api.NewClient(cfg.ResolvedBaseURL(api.DefaultBaseURL), cfg.APIKey), nil
}
