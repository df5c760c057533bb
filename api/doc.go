// Package api provides HTTP REST API handlers for the Hashfront movement server.
//
// The api package implements:
//   - Map listing, retrieval and upload
//   - Stateless path and reachable-set queries on a named map
//   - Board management and unit placement
//   - Unit path, reach and move operations on boards
//   - WebSocket upgrade handling for live board updates
//
// Endpoints:
//
// Maps:
//   - GET /api/maps - List available maps
//   - GET /api/maps/{name} - Get a map
//   - POST /api/maps/{name}/path - Cheapest path ({start, goal, budget, class, blocked})
//   - POST /api/maps/{name}/reachable - Reachable tiles ({start, budget, class, blocked})
//
// Boards:
//   - POST /api/boards - Create a board from a map ({map_id})
//   - GET /api/boards - List boards (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/boards/{id} - Get a board
//   - DELETE /api/boards/{id} - Delete a board
//
// Units:
//   - POST /api/boards/{id}/units - Place a unit ({id, class, player, x, y})
//   - DELETE /api/boards/{id}/units/{unit} - Remove a unit
//   - POST /api/boards/{id}/units/{unit}/path - Plan a path ({goal, budget})
//   - POST /api/boards/{id}/units/{unit}/reachable - Movement range ({budget})
//   - POST /api/boards/{id}/units/{unit}/move - Move along the cheapest path ({goal, budget})
//
// Other:
//   - GET /api/health - Health check
//   - GET /ws?board={id} - WebSocket stream of board updates
//
// Positions are JSON objects {"x": 1, "y": 2}. Unknown unit classes move
// as rifle.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the error:
//
//	{"error": "board not found: ab12cd34"}
//
// 400 for invalid requests and maps, 404 for unknown maps, boards and units,
// 409 for occupied tiles and duplicate units, 422 when a move has no path
// within its budget.
package api
