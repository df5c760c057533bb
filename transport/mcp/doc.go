// Package mcp provides a Model Context Protocol interface to the Hashfront movement server.
//
// The Client is a thin MCP server whose tools proxy to the REST API, so an
// agent sees exactly the state the HTTP clients and WebSocket viewers see.
//
// MCP Tools:
//   - list_maps: List available maps
//   - find_path: Cheapest path on a map for a unit class and budget
//   - find_reachable: Movement range on a map
//   - create_board: Create a board from a map
//   - get_board: Show a board with its units
//   - place_unit: Put a unit on a board
//   - move_unit: Move a board unit along its cheapest path
//   - unit_reachable: Movement range of a board unit
//   - movement_rules: Terrain costs, class restrictions and the road bonus
//
// Results are text with an ASCII rendering of the map: the path or the
// reachable tiles are drawn over the terrain legend so an agent can check
// the answer by eye.
//
// Transport Modes:
//   - Stdio: main's stdio-mcp mode serves GetMCPServer() over stdin/stdout
//   - HTTP: main mounts GetMCPServer().HandleMessage at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
