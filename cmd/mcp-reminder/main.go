// Command mcp-reminder provides an MCP server for reminder management.
//
// It shares the reminder list with the reminders CLI and keeps the
// notification timers armed while it runs.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	REMINDERS_DB_PATH   Path to SQLite database (default: ~/.reminders/reminders.db)
//	TELEGRAM_BOT_TOKEN  Telegram bot token for push delivery
//	TELEGRAM_CHAT_ID    Telegram chat to deliver to
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/config"
	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
)

func main() {
	configPath := config.GetDefaultConfigPath()
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		case "--config":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "--config needs a path")
				os.Exit(1)
			}
			configPath = os.Args[2]
		}
	}

	ctx := context.Background()

	// stdout carries the MCP protocol, so console notifications go to stderr.
	a, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		NoColor:    true,
		Headless:   true,
		ConsoleOut: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	push := func(ctx context.Context, payload []byte) error {
		return a.Gate.Notify(ctx, notify.ParsePush(payload))
	}
	s := reminder.NewServer(a.Engine, a.Clock, reminder.WithPush(push))

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - Reminder management via MCP protocol

USAGE:
    mcp-reminder                  Start MCP server (communicates via stdio)
    mcp-reminder --config <path>  Use another configuration file
    mcp-reminder --help           Show this help

ENVIRONMENT:
    REMINDERS_DB_PATH   Path to SQLite database file
                        Default: ~/.reminders/reminders.db
    TELEGRAM_BOT_TOKEN  Telegram bot token (enables Telegram delivery)
    TELEGRAM_CHAT_ID    Telegram chat ID

TOOLS:
    add_reminder           Add a reminder (title, date, time, description, frequency)
    list_reminders         List all reminders, or those on one date
    get_overdue_reminders  Reminders past their time and not done
    toggle_reminder        Check or uncheck a reminder by index
    delete_reminder        Delete a reminder by index (later indexes shift down)
    push_notification      Show a notification from a JSON payload

CONFIGURATION:
    Add to your MCP client configuration:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
