// jira-bridge: Jira MCP Server
//
// An MCP server that lets AI tools work with Jira Cloud issues and the
// Zephyr test-step add-on, with automatic discovery of per-instance
// custom field ids (story points, epic link, sprint, …).
//
// Usage:
//
//	jira-bridge serve    # Start MCP server (stdio transport)
//	jira-bridge update   # Update to the latest version
package main

import (
	"fmt"
	"os"

	bridgeserver "github.com/HendryAvila/jira-bridge/internal/server"
	"github.com/HendryAvila/jira-bridge/internal/updater"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("jira-bridge v%s\n", bridgeserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, err := bridgeserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Network failures are silently
// ignored — this is best-effort.
func checkForUpdates() {
	result := updater.CheckVersion(bridgeserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s → v%s\n"+
				"  Run: jira-bridge update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	result := updater.CheckVersion(bridgeserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "Updating v%s → v%s...\n", result.CurrentVersion, result.LatestVersion)
	if err := updater.SelfUpdate(bridgeserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "You can download manually from: %s\n", result.ReleaseURL)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Updated to v%s. Restart jira-bridge to use the new version.\n", result.LatestVersion)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `jira-bridge v%s — Jira MCP Server

Usage:
  jira-bridge serve    Start the MCP server (stdio transport)
  jira-bridge update   Update to the latest version

Configuration (environment, or a .env file next to the binary):
  JIRA_URL        https://<your-site>.atlassian.net
  JIRA_EMAIL      account email
  JIRA_API_TOKEN  API token from id.atlassian.com
  JIRA_CONFIG_DIR where per-project field configs persist
                  (default ~/.jira-bridge/projects)

  ZEPHYR_BASE_URL, ZEPHYR_ACCESS_KEY, ZEPHYR_SECRET_KEY,
  ZEPHYR_ACCOUNT_ID   optional, enable the Zephyr test-step tools

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "jira": {
        "command": "jira-bridge",
        "args": ["serve"],
        "env": { "JIRA_URL": "...", "JIRA_EMAIL": "...", "JIRA_API_TOKEN": "..." }
      }
    }
  }
`, bridgeserver.Version)
}
