package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Memory Match",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Memory Match - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find every pair of matching cards on an N x N board before the move budget runs out.
Only mismatched pairs cost a move.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- board: Show the current board
- reveal: Turn a card face up - requires intent explanation
- reset_game: Deal a new game with the current settings
- switch_config: Move a session to another preset
- set_grid_size: Change the board size (2, 4, 6, 8 or 10)
- set_max_moves: Change the move budget
- reveal_history: View past reveals
- list_configs: List available presets
- game_instructions: Full rules and strategy

Card ids run row by row: card_id = row * grid_size + col.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to start from (see list_configs). Uses the default preset when omitted.",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details about a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board",
		Description: "Show the board. Face-down cards are '?', face-up cards show their value, matched cards are shown in brackets.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal",
		Description: "Turn one card face up. The second card of a pair is compared with the first; a mismatch costs one move and both cards are turned back after a short delay.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"card_id": map[string]interface{}{
					"type":        "integer",
					"description": "Card to reveal (row * grid_size + col)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are revealing this card",
				},
			},
			Required: []string{"session_id", "card_id", "intent"},
		},
	}, c.handleReveal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Deal a new shuffled board with the current settings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "switch_config",
		Description: "Move a session to another preset and deal a new game. Use list_configs to see the presets",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to switch to (e.g. 'tiny', 'expert')",
				},
			},
			Required: []string{"session_id", "config_id"},
		},
	}, c.handleSwitchConfig)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_grid_size",
		Description: "Change the board size. Accepted values are 2, 4, 6, 8 and 10. A new size deals a new game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New grid size",
				},
			},
			Required: []string{"session_id", "value"},
		},
	}, c.handleSetGridSize)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_max_moves",
		Description: "Change the move budget of the current game. Must be a positive integer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New move budget",
				},
			},
			Required: []string{"session_id", "value"},
		},
	}, c.handleSetMaxMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal_history",
		Description: "Get the reveals of the current deal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRevealHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// stringArg accepts strings and numbers so "6" and 6 are both usable
func stringArg(args map[string]interface{}, key string) (string, bool) {
	switch v := args[key].(type) {
	case string:
		return v, true
	case float64:
		return fmt.Sprintf("%v", v), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

// cardArg reads card_id as a whole number within the largest board
func cardArg(args map[string]interface{}) (int, error) {
	v, ok := args["card_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("card_id is required and must be an integer")
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("card_id must be a whole number, got %v", v)
	}
	if limit := engine.MaxGridSize * engine.MaxGridSize; v < 0 || v >= float64(limit) {
		return 0, fmt.Errorf("card_id must be between 0 and %d, got %v", limit-1, v)
	}
	return int(v), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatBoard(session.Board))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.Board != nil {
			status = fmt.Sprintf(", %dx%d, Moves: %s, %s",
				s.Board.GridSize, s.Board.GridSize, s.Board.MovesLabel, s.Board.Outcome)
		}
		result += fmt.Sprintf("- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var board engine.BoardView
	if err := c.apiCall("GET", sessionPath(sessionID, "/board"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleSwitchConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	configID, _ := args["config_id"].(string)
	if configID == "" {
		return mcp.NewToolResultError("config_id is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall("PUT", sessionPath(sessionID, "/config"), map[string]string{"config_id": configID}, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Switched session %s to %s\n\n%s",
		session.ID, session.ConfigName, formatBoard(session.Board))), nil
}

func (c *Client) handleReveal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	cardID, err := cardArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{
		"card_id": cardID,
	}

	var result service.RevealResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/reveal"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRevealResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var board engine.BoardView
	if err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("New game dealt\n\n" + formatBoard(&board)), nil
}

func (c *Client) handleSetGridSize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.applySetting(request, "/grid-size")
}

func (c *Client) handleSetMaxMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.applySetting(request, "/max-moves")
}

func (c *Client) applySetting(request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	value, ok := stringArg(args, "value")
	if !ok {
		return mcp.NewToolResultError("value is required"), nil
	}

	var result service.SettingResult
	if err := c.apiCall("PUT", sessionPath(sessionID, suffix), map[string]string{"value": value}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSettingResult(&result)), nil
}

func (c *Client) handleRevealHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Max moves: %d, Mismatch delay: %dms\n\n",
			config.Name, config.ConfigID, config.Description,
			config.GridSize, config.GridSize, config.MaxMoves, config.MismatchDelayMs)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Memory Match - Complete Instructions

GAME OBJECTIVE:
Every card on the board has exactly one twin. Turn cards over two at a time and
find all the pairs before you run out of moves.

GAME MECHANICS:
• Reveal: Turn one face-down card face up
• Pair: The second reveal is compared with the first
• Match: Both cards stay face up for good. Matches are free.
• Mismatch: Costs one move. Both cards turn back over after a short delay.
• Waiting: Reveals are ignored while a mismatch is still showing
• Victory: Every pair matched
• Game Over: The move counter reaches the budget before the board is cleared

BOARD LEGEND:
• ?    face-down card
• 7    face-up card showing value 7
• [7]  matched card
Card ids run row by row: card_id = row * grid_size + col.

SETTINGS:
• set_grid_size accepts 2, 4, 6, 8 or 10. Any other value is rejected and the game is untouched.
• A different grid size deals a new game. The same size changes nothing.
• set_max_moves accepts any positive integer and keeps the current board.
• reset_game deals a new shuffled board with the current settings.
• switch_config moves the session to another preset and deals a new board.

STRATEGY:
1. Keep a map of every value you have seen and where it was.
2. When the first card of a pair matches a value you already saw, reveal its twin.
3. Otherwise reveal a card you have never seen, so a mismatch still teaches you something.
4. Use reveal_history to rebuild your map if you lose track.

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoard(session.Board))
}

func formatBoard(board *engine.BoardView) string {
	if board == nil {
		return "No board available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Grid: %dx%d | Moves: %s | Pairs: %d/%d | Outcome: %s\n\n",
		board.GridSize, board.GridSize, board.MovesLabel,
		board.MatchedPairs, board.TotalPairs, board.Outcome))

	result.WriteString("     ")
	for col := 0; col < board.GridSize; col++ {
		result.WriteString(fmt.Sprintf("%5s", fmt.Sprintf("c%d", col)))
	}
	result.WriteString("\n")

	for row := 0; row < board.GridSize; row++ {
		result.WriteString(fmt.Sprintf("%-5s", fmt.Sprintf("r%d", row)))
		for col := 0; col < board.GridSize; col++ {
			card, ok := board.Card(row*board.GridSize + col)
			if !ok {
				result.WriteString(fmt.Sprintf("%5s", "."))
				continue
			}
			result.WriteString(fmt.Sprintf("%5s", cardLabel(card)))
		}
		result.WriteString("\n")
	}

	if board.Pending {
		result.WriteString("\nWaiting for the mismatched cards to turn back over")
	}

	if board.Banner != "" {
		result.WriteString(fmt.Sprintf("\n%s", board.Banner))
	}

	if board.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", board.Message))
	}

	return result.String()
}

func cardLabel(card engine.CardView) string {
	if card.Value == nil {
		return "?"
	}
	if card.State == engine.CardMatched {
		return fmt.Sprintf("[%d]", *card.Value)
	}
	return fmt.Sprintf("%d", *card.Value)
}

func formatRevealResult(result *service.RevealResult) string {
	var b strings.Builder

	if result.Applied {
		b.WriteString(fmt.Sprintf("Revealed card %d: %s\n", result.CardID, result.Kind))
	} else {
		b.WriteString(fmt.Sprintf("Reveal of card %d ignored", result.CardID))
		if result.Reason != "" {
			b.WriteString(fmt.Sprintf(" (%s)", result.Reason))
		}
		b.WriteString("\n")
	}

	for _, event := range result.Events {
		b.WriteString(fmt.Sprintf("• %s\n", event.Message))
	}

	if result.ResolvesInMs > 0 {
		b.WriteString(fmt.Sprintf("Cards turn back over in %dms\n", result.ResolvesInMs))
	}

	b.WriteString("\n")
	b.WriteString(formatBoard(result.Board))
	return b.String()
}

func formatSettingResult(result *service.SettingResult) string {
	var b strings.Builder

	if result.Accepted {
		b.WriteString(fmt.Sprintf("%s set to %d", result.Setting, result.Value))
		if result.NewGame {
			b.WriteString(" (new game dealt)")
		}
	} else {
		b.WriteString(fmt.Sprintf("%s %q rejected: %s", result.Setting, result.Raw, result.Reason))
	}

	b.WriteString("\n\n")
	b.WriteString(formatBoard(result.Board))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Reveal History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalReveals)

	if len(history.Reveals) == 0 {
		return result + "(no reveals in this deal)"
	}

	for _, reveal := range history.Reveals {
		result += fmt.Sprintf("%d. card %d = %d %s [Moves: %d]\n",
			reveal.Seq, reveal.CardID, reveal.Value, reveal.Kind, reveal.MoveCount)
	}

	return result
}
