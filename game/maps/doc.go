// Package maps provides terrain map management for the Hashfront movement server.
//
// The maps package handles:
//   - Loading map files (JSON with an ASCII layout) from a directory
//   - Map validation: rectangular layout, known tile characters, unit placements
//   - Default map management and map discovery
//   - Conversion between ASCII layouts, packed on-chain encodings and movement grids
//
// Map Format:
//
// Each map file defines a name, a description, the terrain layout as rows of
// characters, and optionally the starting unit placements:
//
//	{
//	  "name": "crossroads",
//	  "description": "Two roads meet in a mountain pass",
//	  "layout": ["..R..", "MMRMM", "RRRRR"],
//	  "units": [{"id": "t1", "class": "tank", "player": 1, "x": 2, "y": 2}]
//	}
//
// Layout characters:
//
//	.  Grass     M  Mountain   C  City      F  Factory   H  HQ
//	R  Road      T  Tree       D  DirtRoad  B  Barracks  O  Ocean
//
// Usage:
//
//	manager, err := maps.NewManager("configs/maps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	m, err := manager.LoadMap("crossroads")
//	grid, err := m.Grid()
package maps
