package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/layout"
)

// Engine provides the main interface for board operations
type Engine interface {
	// Registry
	Insert(s *Sprite) error
	Remove(id string) bool
	Contains(id string) bool
	Get(id string) (*Sprite, bool)
	Sprites() []*Sprite
	Len() int

	// Layout
	Available() geometry.Size
	Extent() geometry.Size
	Resize(available geometry.Size) Frame
	Layout() Frame
	Positions(extent geometry.Size) []SpritePosition

	// Ticks and notifications
	Seq() uint64
	Tick() TickResult
	Dispatch(n Notification) []string

	// Movement
	Nudge(id string, dx, dy float64) error
	Place(id string, x, y geometry.Offset) error

	// Configuration and persistence
	Config() *BoardConfig
	Reset() error
	Snapshot() Snapshot
	Restore(snap Snapshot) error
}

// Board implements the Engine interface
type Board struct {
	config    *BoardConfig
	layout    layout.Free
	grid      *GameGrid
	sprites   *Registry
	available geometry.Size
	seq       uint64
}

var _ Engine = (*Board)(nil)

// NewBoard creates a board from the provided configuration and seeds its
// sprites from the configured state.
func NewBoard(config *BoardConfig) (*Board, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	grid, err := NewGameGrid(config.State, config.Grid.Rows, config.Grid.Cols, config.Grid.Spacing, config.Grid.CellSize)
	if err != nil {
		return nil, err
	}

	b := &Board{
		config:  config,
		layout:  layout.NewFree(config.AspectRatio, geometry.Uniform(config.Padding)),
		grid:    grid,
		sprites: NewRegistry(),
	}
	if err := b.seed(); err != nil {
		return nil, err
	}
	return b, nil
}

// seed replaces the registry with sprites for every occupied grid cell,
// anchored at the cell's position.
func (b *Board) seed() error {
	b.sprites.Clear()
	b.seq = 0
	b.available = b.config.Viewport

	for _, cell := range b.grid.Layout(b.grid.Size()) {
		if cell.Kind == Empty {
			continue
		}
		s := NewSprite(cell.Kind, cell.Area.Size,
			geometry.Static(cell.Area.Offset.X), geometry.Static(cell.Area.Offset.Y))
		s.Handler = HandlerFor(cell.Kind, b.config.Step())
		if err := b.sprites.Insert(s); err != nil {
			return err
		}
	}
	return nil
}

// Config returns the board configuration
func (b *Board) Config() *BoardConfig {
	return b.config
}

// Grid returns the declarative grid the board was seeded from
func (b *Board) Grid() *GameGrid {
	return b.grid
}

// Reset discards every sprite and reseeds the board from its configuration
func (b *Board) Reset() error {
	return b.seed()
}

// Insert adds a sprite after all existing ones. Sprites without a handler get
// the default handler for their kind.
func (b *Board) Insert(s *Sprite) error {
	if b.sprites.Len() >= MaxSprites {
		return ErrTooManySprites
	}
	if s != nil && s.Handler == nil {
		s.Handler = HandlerFor(s.Kind, b.config.Step())
	}
	return b.sprites.Insert(s)
}

func (b *Board) Remove(id string) bool {
	return b.sprites.Remove(id)
}

func (b *Board) Contains(id string) bool {
	return b.sprites.Contains(id)
}

func (b *Board) Get(id string) (*Sprite, bool) {
	return b.sprites.Get(id)
}

// Sprites returns the board's sprites in insertion order
func (b *Board) Sprites() []*Sprite {
	return b.sprites.Sprites()
}

func (b *Board) Len() int {
	return b.sprites.Len()
}

// Available returns the area the board was last given
func (b *Board) Available() geometry.Size {
	return b.available
}

// Extent returns the aspect-locked board size for the current available area
func (b *Board) Extent() geometry.Size {
	return b.layout.Extent(b.available)
}

// Seq returns the number of ticks run since the board was seeded
func (b *Board) Seq() uint64 {
	return b.seq
}

// Resize stores a new available area and lays the board out against it
func (b *Board) Resize(available geometry.Size) Frame {
	b.available = available
	frame, _ := b.layoutPass()
	return frame
}

// Layout lays the board out against the stored available area
func (b *Board) Layout() Frame {
	frame, _ := b.layoutPass()
	return frame
}

// layoutPass runs the free layout over the background and every sprite.
// Placements are in viewport coordinates and include padding and each
// sprite's adjustment.
func (b *Board) layoutPass() (Frame, []*Sprite) {
	sprites := b.sprites.Sprites()

	children := make([]layout.Child, 0, len(sprites)+1)
	children = append(children, layout.Child{Request: geometry.Fill(), X: geometry.Start(), Y: geometry.Start()})
	for _, s := range sprites {
		children = append(children, s.Child())
	}

	pass := b.layout.Build(b.available, children)
	frame := Frame{
		Extent:     pass.Extent,
		Background: pass.Areas[0],
		Placements: make([]Placement, len(sprites)),
	}
	for i, s := range sprites {
		area := pass.Areas[i+1]
		area.Offset = area.Offset.Add(s.Adjust)
		frame.Placements[i] = Placement{ID: s.ID, Kind: s.Kind, Area: area}
	}
	return frame, sprites
}

// Positions returns every sprite's bounds within a board of the given extent
func (b *Board) Positions(extent geometry.Size) []SpritePosition {
	sprites := b.sprites.Sprites()
	out := make([]SpritePosition, len(sprites))
	for i, s := range sprites {
		out[i] = SpritePosition{ID: s.ID, Kind: s.Kind, Bounds: s.Bounds(extent)}
	}
	return out
}

// Tick runs one layout pass, detects collisions against the extent that pass
// produced and delivers every collision to every sprite. Sprites whose
// handlers ask for removal are removed once all collisions are delivered.
func (b *Board) Tick() TickResult {
	b.seq++
	frame, sprites := b.layoutPass()
	areas := placementAreas(frame)

	_, removed := b.broadcast(TickNotification(b.seq), sprites, areas)

	collisions := Detect(frame.Extent, sprites)
	for _, c := range collisions {
		_, gone := b.broadcast(CollisionNotification(c), sprites, areas)
		removed = appendUnique(removed, gone...)
	}
	b.removeAll(removed)

	return TickResult{
		Seq:        b.seq,
		Extent:     frame.Extent,
		Collisions: collisions,
		Removed:    removed,
	}
}

// Dispatch delivers a notification to the board and returns the IDs of the
// sprites whose handlers reacted to it.
func (b *Board) Dispatch(n Notification) []string {
	switch n.Kind {
	case NotifyTick:
		return b.Tick().Removed
	case NotifyResize:
		b.available = n.Size
	case NotifyInput, NotifyCollision:
	default:
		return nil
	}

	frame, sprites := b.layoutPass()
	reacted, removed := b.broadcast(n, sprites, placementAreas(frame))
	b.removeAll(removed)
	return reacted
}

// broadcast hands a copy of n to the handler of every sprite.
func (b *Board) broadcast(n Notification, sprites []*Sprite, areas []geometry.Area) (reacted, removed []string) {
	copies := Propagate(n, areas)
	for i, s := range sprites {
		switch s.handle(copies[i]) {
		case ReactMoved:
			reacted = append(reacted, s.ID)
		case ReactRemove:
			reacted = append(reacted, s.ID)
			removed = appendUnique(removed, s.ID)
		}
	}
	return reacted, removed
}

func (b *Board) removeAll(ids []string) {
	for _, id := range ids {
		if b.sprites.Remove(id) {
			log.Debug().Str("sprite", id).Uint64("seq", b.seq).Msg("sprite removed by handler")
		}
	}
}

// Nudge moves a sprite by (dx, dy) relative to its anchored position
func (b *Board) Nudge(id string, dx, dy float64) error {
	s, ok := b.sprites.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, id)
	}
	s.Adjust = s.Adjust.Add(geometry.Point{X: dx, Y: dy})
	return nil
}

// Place re-anchors a sprite and clears its adjustment
func (b *Board) Place(id string, x, y geometry.Offset) error {
	s, ok := b.sprites.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, id)
	}
	s.X, s.Y = x, y
	s.Adjust = geometry.Point{}
	return nil
}

func placementAreas(frame Frame) []geometry.Area {
	areas := make([]geometry.Area, len(frame.Placements))
	for i, p := range frame.Placements {
		areas[i] = p.Area
	}
	return areas
}

func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		dup := false
		for _, have := range dst {
			if have == id {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, id)
		}
	}
	return dst
}
