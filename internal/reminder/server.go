package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/reminders/internal/clock"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"

	dateLayout = "2006-01-02"
)

// PushFunc delivers a raw push payload as a notification.
type PushFunc func(ctx context.Context, payload []byte) error

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer *server.MCPServer
	engine    *Engine
	clock     clock.Clock
	push      PushFunc
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithPush enables the push_notification tool.
func WithPush(push PushFunc) ServerOption {
	return func(s *Server) { s.push = push }
}

// NewServer creates a new Reminder MCP server backed by the given engine.
func NewServer(engine *Engine, clk clock.Clock, opts ...ServerOption) *Server {
	s := &Server{
		engine: engine,
		clock:  clk,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// entryView is the JSON shape returned by the tools.
type entryView struct {
	Index          int       `json:"index"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Frequency      Frequency `json:"frequency"`
	ReminderTime   time.Time `json:"reminder_time,omitzero"`
	Done           bool      `json:"done"`
	OverdueMinutes int       `json:"overdue_minutes"`
	Summary        string    `json:"summary"`
}

func (s *Server) view(entries []Entry) []entryView {
	now := s.clock.Now()
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		r := e.Reminder
		views = append(views, entryView{
			Index:          e.Index,
			Title:          r.Title,
			Description:    r.Description,
			Date:           r.Date.Format(dateLayout),
			Time:           r.Time,
			Frequency:      r.Frequency,
			ReminderTime:   r.ReminderTime,
			Done:           r.Done,
			OverdueMinutes: OverdueMinutes(r, now),
			Summary:        Summary(r, now),
		})
	}
	return views
}

func (s *Server) registerTools() {
	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a reminder for a day at a time of day, optionally repeating"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Day in YYYY-MM-DD format")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Time of day in 24-hour HH:MM format")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("frequency", mcp.Description("Once, Every minute, Every 5 minutes, Every 30 minutes, Every hour or Every day (default: Once)")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders with their index, optionally only those of one day"),
			mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD format, or empty for all")),
		),
		s.handleListReminders,
	)

	// get_overdue_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("get_overdue_reminders",
			mcp.WithDescription("Get all reminders that are not done and past their time"),
		),
		s.handleGetOverdueReminders,
	)

	// toggle_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("toggle_reminder",
			mcp.WithDescription("Mark a reminder as done, or as not done if it already is"),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Reminder index from list_reminders")),
		),
		s.handleToggleReminder,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently. Later indices shift down by one."),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Reminder index from list_reminders")),
		),
		s.handleDeleteReminder,
	)

	if s.push != nil {
		// push_notification
		s.mcpServer.AddTool(
			mcp.NewTool("push_notification",
				mcp.WithDescription("Show a notification from a push payload {\"title\": ..., \"body\": ...}"),
				mcp.WithString("payload", mcp.Description("JSON payload; missing fields use the default reminder text")),
			),
			s.handlePushNotification,
		)
	}
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr := req.GetString("date", "")
	if dateStr == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v (use YYYY-MM-DD)", err)), nil
	}

	added, err := s.engine.Add(ctx, AddInput{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		Date:        date,
		Time:        req.GetString("time", ""),
		Frequency:   req.GetString("frequency", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(s.view([]Entry{added})[0], "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var entries []Entry
	if dateStr := req.GetString("date", ""); dateStr != "" {
		day, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v (use YYYY-MM-DD)", err)), nil
		}
		entries = s.engine.On(day)
	} else {
		for i, r := range s.engine.Reminders() {
			entries = append(entries, Entry{Index: i, Reminder: r})
		}
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(s.view(entries), "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleGetOverdueReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.engine.Overdue(s.clock.Now())
	if len(entries) == 0 {
		return mcp.NewToolResultText("No overdue reminders."), nil
	}

	output, _ := json.MarshalIndent(s.view(entries), "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleToggleReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, errResult := requireIndex(req)
	if errResult != nil {
		return errResult, nil
	}

	r, err := s.engine.ToggleDone(ctx, index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle reminder: %v", err)), nil
	}

	state := "not done"
	if r.Done {
		state = "done"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d marked as %s. %s", index, state, Summary(r, s.clock.Now()))), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, errResult := requireIndex(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.engine.Delete(ctx, index); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", index)), nil
}

func (s *Server) handlePushNotification(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.push(ctx, []byte(req.GetString("payload", ""))); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to show notification: %v", err)), nil
	}
	return mcp.NewToolResultText("Notification shown."), nil
}

func requireIndex(req mcp.CallToolRequest) (int, *mcp.CallToolResult) {
	idxFloat := req.GetFloat("index", -1)
	if idxFloat < 0 {
		return 0, mcp.NewToolResultError("index is required and must be zero or greater")
	}
	if idxFloat != math.Trunc(idxFloat) || idxFloat > math.MaxInt32 {
		return 0, mcp.NewToolResultError(fmt.Sprintf("index must be a whole number, got %v", idxFloat))
	}
	return int(idxFloat), nil
}
