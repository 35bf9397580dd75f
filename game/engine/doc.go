// Package engine provides the board core of the sprite board server.
//
// The engine package implements:
//   - Sprites anchored by symbolic offsets plus an accumulated adjustment
//   - An insertion-ordered sprite registry keyed by sprite ID
//   - Pairwise AABB collision detection driven by ticks
//   - Notification propagation to every sprite's input handler
//   - Declarative board seeding from "x,y" grid coordinates
//   - Board configuration validation and loading
//
// Core Types:
//
// Board implements the Engine interface. Each tick it runs a free layout pass
// to resolve the board extent, computes sprite positions from that extent,
// scans every sprite pair for overlap and propagates one Collision per
// overlapping pair. The extent is returned from the layout pass and handed
// to the collision scan directly; it is never kept as shared state.
//
// Usage:
//
//	cfg, err := engine.LoadBoardConfig("configs/arena.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := engine.NewBoard(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board.Resize(geometry.Size{W: 1280, H: 720})
//	result := board.Tick()
//	for _, c := range result.Collisions {
//		fmt.Println(c.A, "hit", c.B)
//	}
//
// Concurrency:
//
// A Board is not safe for concurrent use. Callers serialise ticks, resizes
// and registry mutations for a board; the service layer does this with its
// own lock.
package engine
