package editor

import (
	"errors"
	"sync"

	"schemacanvas/internal/graph"
	"schemacanvas/internal/models"
)

var (
	ErrTableExists     = errors.New("a table with that name already exists")
	ErrTableNotFound   = errors.New("table not found")
	ErrUnknownTemplate = errors.New("unknown table template")
)

// Session owns a schema being edited: the current snapshot, the node layout
// and the pending connection gesture. Every mutation replaces the snapshot
// wholesale (copy-on-write) and feeds the autosave controller; the position
// cache is touched only by drag gestures.
type Session struct {
	mu        sync.Mutex
	access    AccessLevel
	schema    models.SchemaData
	positions graph.PositionCache
	resolver  *graph.ConnectionResolver
	autosave  *Autosave
}

// NewSession opens a schema at the given access level. For view-only access
// the session exposes the projection but no Editor handle, so mutating
// gestures simply are not wired.
func NewSession(access AccessLevel, schema models.SchemaData, autosave *Autosave) *Session {
	return &Session{
		access:    access,
		schema:    schema.Clone(),
		positions: make(graph.PositionCache),
		resolver:  graph.NewConnectionResolver(),
		autosave:  autosave,
	}
}

func (s *Session) Access() AccessLevel { return s.access }

// Schema returns the current snapshot. Callers get a deep copy; session
// snapshots are never aliased.
func (s *Session) Schema() models.SchemaData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema.Clone()
}

// Graph projects the current snapshot with the session's layout.
func (s *Session) Graph() ([]graph.Node, []graph.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Build(&s.schema, s.positions)
}

// MoveNode records a dragged node's coordinates. Layout is presentation
// state: it is not part of the schema and does not mark it dirty, and it
// survives any unrelated schema mutation.
func (s *Session) MoveNode(table string, pos graph.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions.Set(table, pos)
}

// Editor returns the mutating surface of the session, or false when the
// access level does not permit mutation.
func (s *Session) Editor() (*Editor, bool) {
	if !s.access.CanMutate() {
		return nil, false
	}
	return &Editor{session: s}, true
}

// Editor is the capability handle for mutating a session. It exists only for
// owner/edit access; view-only collaborators never obtain one.
type Editor struct {
	session *Session
}

// apply installs a new snapshot and tracks it for autosave.
func (e *Editor) apply(next models.SchemaData) {
	s := e.session
	s.schema = next
	if s.autosave != nil {
		s.autosave.Track(next)
	}
}

// Replace swaps in a freshly imported schema wholesale.
func (e *Editor) Replace(data models.SchemaData) {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	e.apply(data.Clone())
}

// AddTable appends a table built from a template.
func (e *Editor) AddTable(template, name, engine string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := models.TableFromTemplate(template, name, engine)
	if !ok {
		return ErrUnknownTemplate
	}
	if s.schema.TableIndex(table.Name) >= 0 {
		return ErrTableExists
	}
	next := s.schema.Clone()
	next.Tables = append(next.Tables, table)
	e.apply(next)
	return nil
}

// UpdateTable replaces the table at the given position.
func (e *Editor) UpdateTable(index int, table models.Table) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.schema.Tables) {
		return ErrTableNotFound
	}
	next := s.schema.Clone()
	next.Tables[index] = table.Clone()
	e.apply(next)
	return nil
}

// DeleteTable removes a table by name. Foreign keys on other tables that
// reference it are left dangling; the projection still renders them.
func (e *Editor) DeleteTable(name string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.schema.TableIndex(name)
	if idx < 0 {
		return ErrTableNotFound
	}
	next := s.schema.Clone()
	next.Tables = append(next.Tables[:idx], next.Tables[idx+1:]...)
	e.apply(next)
	return nil
}

// RenameTable renames a table and cascade-renames every foreign key that
// references it by the old name. Table names are node identifiers, so
// leaving references behind would silently detach edges.
func (e *Editor) RenameTable(oldName, newName string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.schema.TableIndex(oldName)
	if idx < 0 {
		return ErrTableNotFound
	}
	if oldName != newName && s.schema.TableIndex(newName) >= 0 {
		return ErrTableExists
	}

	next := s.schema.Clone()
	next.Tables[idx].Name = newName
	for i := range next.Tables {
		for j := range next.Tables[i].ForeignKeys {
			if next.Tables[i].ForeignKeys[j].References.Table == oldName {
				next.Tables[i].ForeignKeys[j].References.Table = newName
			}
		}
	}

	// Carry the dragged position over to the new node id.
	if pos, ok := s.positions[oldName]; ok {
		s.positions.Set(newName, pos)
	}

	e.apply(next)
	return nil
}

// BeginConnection parks a drawn connection; the resolver waits for a
// relation type until CommitConnection or CancelConnection.
func (e *Editor) BeginConnection(source, target graph.Endpoint) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Begin(source, target)
}

// CommitConnection finishes the pending gesture with the chosen relation
// type. Committing a duplicate of an existing foreign key changes nothing.
func (e *Editor) CommitConnection(relationType string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := s.resolver.Commit(s.schema, relationType)
	if err != nil {
		return err
	}
	if changed {
		e.apply(next)
	}
	return nil
}

// CancelConnection discards the pending gesture with no residual effect.
func (e *Editor) CancelConnection() {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.Cancel()
}

// ConnectionState exposes the resolver state for rendering.
func (e *Editor) ConnectionState() graph.ConnectionState {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.State()
}

// ActivateEdge interprets a click on an edge as deletion of the foreign key
// it represents. Exactly zero or one key is removed per activation.
func (e *Editor) ActivateEdge(edgeID string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := graph.RemoveForeignKey(s.schema, edgeID)
	if err != nil {
		return err
	}
	if changed {
		e.apply(next)
	}
	return nil
}

// RecolorTable sets a table's presentation color.
func (e *Editor) RecolorTable(table, color string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := graph.RecolorTable(s.schema, table, color)
	if !changed {
		return ErrTableNotFound
	}
	e.apply(next)
	return nil
}
