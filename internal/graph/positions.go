package graph

// Position is a node coordinate on the diagram canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PositionCache remembers the last observed coordinates per table name.
// Entries survive schema regeneration: a stale entry for a removed table is
// harmless and simply unused. Only a user drag overwrites an entry.
type PositionCache map[string]Position

const (
	gridColumns = 3
	gridSpacing = 300
)

// CapturePositions snapshots the coordinates of existing nodes keyed by node
// id, so a rebuilt projection keeps the user's layout.
func CapturePositions(nodes []Node) PositionCache {
	cache := make(PositionCache, len(nodes))
	for _, n := range nodes {
		cache[n.ID] = n.Position
	}
	return cache
}

// Resolve returns the cached position for a table, or a deterministic grid
// slot derived from the table's ordinal index so first renders are
// reproducible and nodes never start stacked.
func (c PositionCache) Resolve(table string, index int) Position {
	if c != nil {
		if p, ok := c[table]; ok {
			return p
		}
	}
	return Position{
		X: float64(index%gridColumns) * gridSpacing,
		Y: float64(index/gridColumns) * gridSpacing,
	}
}

// Set records a dragged node's coordinates.
func (c PositionCache) Set(table string, p Position) {
	c[table] = p
}
