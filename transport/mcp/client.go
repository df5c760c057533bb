package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/movement"
	"github.com/wricardo/hashfront-movement/game/service"
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
		baseURL: baseURL,
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
		"Hashfront Movement",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Hashfront Movement - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Plan unit movement on grid maps of a turn-based tactics game. Each step costs the
entered tile's movement cost; a unit may spend at most its budget per move.

AVAILABLE TOOLS:
- list_maps: List available maps
- find_path: Cheapest path between two tiles on a map
- find_reachable: Every tile a unit could end its move on
- create_board: Create a board (map + units)
- get_board: Show a board
- place_unit: Put a unit on a board
- move_unit: Move a board unit (other units block)
- unit_reachable: Movement range of a board unit
- movement_rules: Terrain costs and the road bonus

Coordinates are 0-based: x is the column, y is the row.`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

var classProp = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"rifle", "tank", "artillery"},
	"description": "Unit class. Unknown names move as rifle.",
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Maps and stateless planning
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_path",
		Description: "Find the cheapest path between two tiles on a map within a movement budget",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id":  stringProp("Map ID (optional, default map when empty)"),
				"start_x": intProp("Start column (0-based)"),
				"start_y": intProp("Start row (0-based)"),
				"goal_x":  intProp("Goal column (0-based)"),
				"goal_y":  intProp("Goal row (0-based)"),
				"budget":  intProp("Movement points available"),
				"class":   classProp,
			},
			Required: []string{"start_x", "start_y", "goal_x", "goal_y", "budget", "class"},
		},
	}, c.handleFindPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_reachable",
		Description: "List every tile a unit can end its move on, with the cheapest cost to get there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id":  stringProp("Map ID (optional, default map when empty)"),
				"start_x": intProp("Start column (0-based)"),
				"start_y": intProp("Start row (0-based)"),
				"budget":  intProp("Movement points available"),
				"class":   classProp,
			},
			Required: []string{"start_x", "start_y", "budget", "class"},
		},
	}, c.handleFindReachable)

	// Boards
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_board",
		Description: "Create a board from a map. The map's units are placed on it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": stringProp("Map ID (optional)"),
			},
		},
	}, c.handleCreateBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Show a board with its units",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": stringProp("Board ID"),
			},
			Required: []string{"board_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_unit",
		Description: "Place a new unit on a board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": stringProp("Board ID"),
				"unit_id":  stringProp("Unique unit ID"),
				"class":    classProp,
				"player":   intProp("Owning player (optional)"),
				"x":        intProp("Column (0-based)"),
				"y":        intProp("Row (0-based)"),
			},
			Required: []string{"board_id", "unit_id", "class", "x", "y"},
		},
	}, c.handlePlaceUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_unit",
		Description: "Move a board unit to a goal tile along its cheapest path. Other units block. Fails when the goal is out of budget.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": stringProp("Board ID"),
				"unit_id":  stringProp("Unit ID"),
				"goal_x":   intProp("Goal column (0-based)"),
				"goal_y":   intProp("Goal row (0-based)"),
				"budget":   intProp("Movement points available"),
				"intent":   stringProp("Brief explanation of why this move (serves as a rubber duck to help explain your reasoning)"),
			},
			Required: []string{"board_id", "unit_id", "goal_x", "goal_y", "budget"},
		},
	}, c.handleMoveUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "unit_reachable",
		Description: "Show the movement range of a board unit. Other units block.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": stringProp("Board ID"),
				"unit_id":  stringProp("Unit ID"),
				"budget":   intProp("Movement points available"),
			},
			Required: []string{"board_id", "unit_id", "budget"},
		},
	}, c.handleUnitReachable)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "movement_rules",
		Description: "Get terrain costs, class restrictions, the road bonus and the map legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMovementRules)
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

// arguments returns the tool arguments, or an empty map
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// requireInts reads required numeric arguments in order
func requireInts(args map[string]interface{}, keys ...string) ([]int, error) {
	values := make([]int, len(keys))
	for i, key := range keys {
		v, ok := intArg(args, key)
		if !ok {
			return nil, fmt.Errorf("%s is required and must be an integer", key)
		}
		values[i] = v
	}
	return values, nil
}

// Tool handlers

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var infos []maps.MapInfo
	if err := c.apiCall("GET", "/api/maps", nil, &infos); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Maps:\n\n")
	for _, info := range infos {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Size: %dx%d, Units: %d\n\n",
			info.MapID, info.Name, info.Description, info.Width, info.Height, info.Units)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleFindPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID, _ := args["map_id"].(string)
	class, _ := args["class"].(string)

	v, err := requireInts(args, "start_x", "start_y", "goal_x", "goal_y", "budget")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if mapID == "" {
		mapID = maps.DefaultMapName
	}
	body := service.PathRequest{
		Start:  movement.Position{X: v[0], Y: v[1]},
		Goal:   movement.Position{X: v[2], Y: v[3]},
		Budget: v[4],
		Class:  class,
	}

	var result service.PathResult
	if err := c.apiCall("POST", "/api/maps/"+url.PathEscape(mapID)+"/path", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPathResult(&result)), nil
}

func (c *Client) handleFindReachable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID, _ := args["map_id"].(string)
	class, _ := args["class"].(string)

	v, err := requireInts(args, "start_x", "start_y", "budget")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if mapID == "" {
		mapID = maps.DefaultMapName
	}
	body := service.ReachRequest{
		Start:  movement.Position{X: v[0], Y: v[1]},
		Budget: v[2],
		Class:  class,
	}

	var result service.ReachResult
	if err := c.apiCall("POST", "/api/maps/"+url.PathEscape(mapID)+"/reachable", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReachResult(&result)), nil
}

func (c *Client) handleCreateBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID, _ := args["map_id"].(string)

	body := map[string]string{}
	if mapID != "" {
		body["map_id"] = mapID
	}

	var info service.BoardInfo
	if err := c.apiCall("POST", "/api/boards", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created board: " + info.ID + "\n\n" + formatBoard(&info)), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	boardID, _ := args["board_id"].(string)

	var info service.BoardInfo
	if err := c.apiCall("GET", "/api/boards/"+url.PathEscape(boardID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&info)), nil
}

func (c *Client) handlePlaceUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	boardID, _ := args["board_id"].(string)
	unitID, _ := args["unit_id"].(string)
	class, _ := args["class"].(string)
	player, _ := intArg(args, "player")

	v, err := requireInts(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := maps.UnitPlacement{
		ID:     unitID,
		Class:  movement.UnitClass(class),
		Player: player,
		X:      v[0],
		Y:      v[1],
	}

	var info service.BoardInfo
	if err := c.apiCall("POST", "/api/boards/"+url.PathEscape(boardID)+"/units", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Placed %s at (%d,%d)\n\n%s", unitID, v[0], v[1], formatBoard(&info))), nil
}

func (c *Client) handleMoveUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	boardID, _ := args["board_id"].(string)
	unitID, _ := args["unit_id"].(string)

	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	v, err := requireInts(args, "goal_x", "goal_y", "budget")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{
		"goal":   movement.Position{X: v[0], Y: v[1]},
		"budget": v[2],
	}

	var result service.MoveResult
	path := fmt.Sprintf("/api/boards/%s/units/%s/move", url.PathEscape(boardID), url.PathEscape(unitID))
	if err := c.apiCall("POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleUnitReachable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	boardID, _ := args["board_id"].(string)
	unitID, _ := args["unit_id"].(string)

	budget, ok := intArg(args, "budget")
	if !ok {
		return mcp.NewToolResultError("budget is required and must be an integer"), nil
	}

	var result service.ReachResult
	path := fmt.Sprintf("/api/boards/%s/units/%s/reachable", url.PathEscape(boardID), url.PathEscape(unitID))
	if err := c.apiCall("POST", path, map[string]int{"budget": budget}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReachResult(&result)), nil
}

func (c *Client) handleMovementRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(movementRules()), nil
}

// movementRules renders the rules from the engine tables
func movementRules() string {
	var b strings.Builder
	b.WriteString("Hashfront Movement Rules\n\n")

	b.WriteString("TERRAIN (legend char, cost to enter):\n")
	for tile := movement.Grass; tile <= movement.Barracks; tile++ {
		cost := movement.BaseCost(tile)
		costText := fmt.Sprintf("%d", cost)
		if cost == movement.Impassable {
			costText = "impassable"
		}
		note := ""
		switch {
		case tile == movement.Mountain:
			note = " (rifle only)"
		case movement.IsRoad(tile):
			note = " (road)"
		}
		fmt.Fprintf(&b, "• %c %-9s %s%s\n", maps.TileChar(tile), tile, costText, note)
	}

	fmt.Fprintf(&b, `
CLASSES:
• rifle: may cross mountains, no road bonus
• tank, artillery: cannot enter mountains, get the road bonus
Any other unit type moves as rifle.

ROAD BONUS:
A tank or artillery that STARTS its move on a road tile gets %d free movement points.
The free points only pay for road tiles. The first step onto a non-road tile
forfeits whatever is left.

MOVING:
• Steps are orthogonal (right, left, down, up)
• A path's cost is the sum of what each entered tile costs; it must not exceed the budget
• Units and blocked tiles cannot be entered or passed through
• The start tile is never part of a path or a reachable set
`, movement.RoadBonusCredit)

	b.WriteString(`
OVERLAY SYMBOLS:
• S start, G goal, * path step
• 0-9 reachable tile with its cost (+ for 10 or more)
• r/t/a rifle/tank/artillery unit on a board
`)

	return b.String()
}

// Formatting helpers

func overlayRows(layout []string, marks map[movement.Position]rune) []string {
	grid, err := maps.ParseLayout(layout)
	if err != nil {
		return nil
	}
	return maps.Overlay(grid, marks)
}

func writeGrid(b *strings.Builder, rows []string) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("\nMap:\n")
	for y, row := range rows {
		fmt.Fprintf(b, "%2d %s\n", y, row)
	}
}

func formatPathResult(result *service.PathResult) string {
	var b strings.Builder

	if !result.Found {
		fmt.Fprintf(&b, "✗ No path from %s to %s for %s within budget %d\n",
			result.Start, result.Goal, result.Class, result.Budget)
	} else {
		fmt.Fprintf(&b, "✓ Path from %s to %s for %s: cost %d/%d, %d steps\n",
			result.Start, result.Goal, result.Class, result.Cost, result.Budget, len(result.Path))
		steps := make([]string, len(result.Path))
		for i, p := range result.Path {
			steps[i] = p.String()
		}
		fmt.Fprintf(&b, "Steps: %s\n", strings.Join(steps, " → "))
	}
	fmt.Fprintf(&b, "Expanded: %d states\n", result.Expanded)

	marks := map[movement.Position]rune{result.Start: 'S'}
	for _, p := range result.Path {
		marks[p] = '*'
	}
	marks[result.Goal] = 'G'
	writeGrid(&b, overlayRows(result.Layout, marks))

	return b.String()
}

func formatReachResult(result *service.ReachResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reachable from %s for %s with budget %d: %d tiles\n",
		result.Start, result.Class, result.Budget, result.Count)

	marks := map[movement.Position]rune{result.Start: 'S'}
	for _, t := range result.Tiles {
		marks[t.Position()] = maps.CostMark(t.Cost)
	}
	writeGrid(&b, overlayRows(result.Layout, marks))

	return b.String()
}

func formatBoard(info *service.BoardInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Board %s (map: %s, %dx%d)\n", info.ID, info.MapID, info.Width, info.Height)

	marks := make(map[movement.Position]rune, len(info.Units))
	if len(info.Units) > 0 {
		b.WriteString("\nUnits:\n")
	}
	for _, u := range info.Units {
		fmt.Fprintf(&b, "• %s: %s (player %d) at %s\n", u.ID, u.Class, u.Player, u.Position)
		marks[u.Position] = maps.UnitMark(u.Class)
	}
	writeGrid(&b, overlayRows(info.Layout, marks))

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✓ %s\n", result.Message)
	if len(result.Path) > 0 {
		steps := make([]string, len(result.Path))
		for i, p := range result.Path {
			steps[i] = p.String()
		}
		fmt.Fprintf(&b, "Steps: %s\n\n", strings.Join(steps, " → "))
	}
	if result.Board != nil {
		b.WriteString(formatBoard(result.Board))
	}

	return b.String()
}
