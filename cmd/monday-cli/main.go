// monday-cli is an interactive client for the monday-mcp server.
//
// It spawns the server as a child process on stdio and drives it with
// MCP calls, wrapped in a readline REPL with history and completion.
// Useful for poking at a board without wiring up an AI assistant.
//
// Usage:
//
//	monday-cli [--server <path>] [--timeout <dur>]
//
// Commands (in REPL):
//
//	board                      Fetch the full board
//	search <field> <value>     Search items by column value
//	create <name> [json]       Create an item, json holds column values
//	update <id> <json>         Update an item's column values
//	delete <field> <value>     Delete every matching item (asks first)
//	call <tool> [json]         Call any tool with raw JSON arguments
//	tools                      List available tools
//	resources                  List available resources
//	read <uri>                 Read a resource
//	help                       Show this help
//	exit / quit / q            Exit
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/peterh/liner"
)

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	titleColor  = color.New(color.FgGreen, color.Bold)
	errColor    = color.New(color.FgRed)
	infoColor   = color.New(color.FgYellow)
)

func main() {
	serverBin := flag.String("server", "monday-mcp", "path to the monday-mcp binary")
	timeout := flag.Duration("timeout", 30*time.Second, "per-call timeout")
	flag.Parse()

	if err := run(*serverBin, *timeout); err != nil {
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(serverBin string, timeout time.Duration) error {
	c, err := client.NewStdioMCPClient(serverBin, os.Environ(), "serve", "--transport", "stdio")
	if err != nil {
		return fmt.Errorf("starting %s: %w", serverBin, err)
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "monday-cli",
		Version: "0.1.0",
	}

	initResult, err := c.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("initializing session: %w", err)
	}

	titleColor.Printf("Connected to %s v%s\n", initResult.ServerInfo.Name, initResult.ServerInfo.Version)
	infoColor.Println("Type 'help' for available commands.")
	fmt.Println()

	repl := &REPL{client: c, timeout: timeout}
	return repl.Run()
}

// REPL is the interactive command loop.
type REPL struct {
	client  *client.Client
	timeout time.Duration
	liner   *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".monday_cli_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		f.Close()
	}

	for {
		line, err := r.liner.Prompt(promptColor.Sprint("monday> "))
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()
			return nil

		case "help", "?":
			r.printHelp()

		case "board", "data":
			r.callTool("get_board_data", nil)

		case "search":
			r.cmdSearch(args)

		case "create":
			r.cmdCreate(args)

		case "update":
			r.cmdUpdate(args)

		case "delete", "del":
			r.cmdDelete(args)

		case "call":
			r.cmdCall(args)

		case "tools":
			r.cmdTools()

		case "resources":
			r.cmdResources()

		case "read":
			r.cmdRead(args)

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			errColor.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"board", "data", "search", "create", "update",
		"delete", "del", "call", "tools", "resources",
		"read", "clear", "cls", "help", "exit", "quit", "q",
	}

	var completions []string
	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}
	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  board                      Fetch the full board")
	fmt.Println("  search <field> <value>     Search items by column value")
	fmt.Println("  create <name> [json]       Create an item, json holds column values")
	fmt.Println("  update <id> <json>         Update an item's column values")
	fmt.Println("  delete <field> <value>     Delete every matching item (asks first)")
	fmt.Println("  call <tool> [json]         Call any tool with raw JSON arguments")
	fmt.Println("  tools                      List available tools")
	fmt.Println("  resources                  List available resources")
	fmt.Println("  read <uri>                 Read a resource")
	fmt.Println("  help                       Show this help")
	fmt.Println("  exit / quit / q            Exit")
	fmt.Println()
	fmt.Println("Fields: a column id, a column title, or \"name\" for the item name.")
	fmt.Println("Example: create Fix login {\"status\": \"Working on it\", \"date4\": \"2025-03-09\"}")
}

func (r *REPL) cmdSearch(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: search <field> <value>")
		return
	}
	r.callTool("search_board_items", map[string]any{
		"field": args[0],
		"value": strings.Join(args[1:], " "),
	})
}

func (r *REPL) cmdCreate(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: create <name> [json]")
		return
	}

	name, rawJSON := splitNameAndJSON(args)
	if name == "" {
		fmt.Println("Usage: create <name> [json]")
		return
	}

	toolArgs := map[string]any{"item_name": name}
	if rawJSON != "" {
		values, err := parseJSONObject(rawJSON)
		if err != nil {
			errColor.Printf("Error parsing column values: %v\n", err)
			return
		}
		toolArgs["column_values"] = values
	}

	r.callTool("create_board_item", toolArgs)
}

func (r *REPL) cmdUpdate(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: update <id> <json>")
		return
	}

	values, err := parseJSONObject(strings.Join(args[1:], " "))
	if err != nil {
		errColor.Printf("Error parsing column values: %v\n", err)
		return
	}

	r.callTool("update_board_item", map[string]any{
		"item_id":       args[0],
		"column_values": values,
	})
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: delete <field> <value>")
		return
	}

	field := args[0]
	value := strings.Join(args[1:], " ")

	answer, err := r.liner.Prompt(fmt.Sprintf("Delete every item where %s = %q? (yes/no): ", field, value))
	if err != nil {
		fmt.Println("Cancelled.")
		return
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "yes" && answer != "y" {
		fmt.Println("Cancelled.")
		return
	}

	r.callTool("delete_board_items", map[string]any{
		"field": field,
		"value": value,
	})
}

func (r *REPL) cmdCall(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: call <tool> [json]")
		return
	}

	var toolArgs map[string]any
	if len(args) > 1 {
		parsed, err := parseJSONObject(strings.Join(args[1:], " "))
		if err != nil {
			errColor.Printf("Error parsing arguments: %v\n", err)
			return
		}
		toolArgs = parsed
	}

	r.callTool(args[0], toolArgs)
}

func (r *REPL) cmdTools() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		errColor.Printf("Error: %v\n", err)
		return
	}

	for _, tool := range result.Tools {
		titleColor.Printf("  %s\n", tool.Name)
		if tool.Description != "" {
			fmt.Printf("      %s\n", firstLine(tool.Description))
		}
	}
}

func (r *REPL) cmdResources() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	result, err := r.client.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		errColor.Printf("Error: %v\n", err)
		return
	}
	for _, res := range result.Resources {
		titleColor.Printf("  %s\n", res.URI)
		fmt.Printf("      %s\n", res.Name)
	}

	templates, err := r.client.ListResourceTemplates(ctx, mcp.ListResourceTemplatesRequest{})
	if err != nil {
		return
	}
	for _, tpl := range templates.ResourceTemplates {
		titleColor.Printf("  %s\n", tpl.URITemplate.Raw())
		fmt.Printf("      %s\n", tpl.Name)
	}
}

func (r *REPL) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: read <uri>")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	req := mcp.ReadResourceRequest{}
	req.Params.URI = args[0]

	result, err := r.client.ReadResource(ctx, req)
	if err != nil {
		errColor.Printf("Error: %v\n", err)
		return
	}

	for _, content := range result.Contents {
		text, ok := content.(mcp.TextResourceContents)
		if !ok {
			continue
		}
		fmt.Println(prettyJSON(text.Text))
	}
}

// callTool invokes a tool and prints the result. Tool failures come
// back as error results with structured JSON, not Go errors.
func (r *REPL) callTool(name string, args map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := r.client.CallTool(ctx, req)
	if err != nil {
		errColor.Printf("Call failed: %v\n", err)
		return
	}

	for _, content := range result.Content {
		text, ok := content.(mcp.TextContent)
		if !ok {
			continue
		}
		out := prettyJSON(text.Text)
		if result.IsError {
			errColor.Println(out)
		} else {
			fmt.Println(out)
		}
	}
}

// splitNameAndJSON separates "Fix login {...}" into the item name and
// the trailing JSON object, either of which may be absent.
func splitNameAndJSON(args []string) (string, string) {
	joined := strings.Join(args, " ")
	if i := strings.Index(joined, "{"); i >= 0 {
		return strings.TrimSpace(joined[:i]), joined[i:]
	}
	return strings.TrimSpace(joined), ""
}

func parseJSONObject(s string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func prettyJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
