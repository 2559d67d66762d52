package graph

import (
	"errors"

	"schemacanvas/internal/models"
)

// EndpointRole marks which side of a drawn connection an endpoint is.
type EndpointRole string

const (
	RoleSource EndpointRole = "source"
	RoleTarget EndpointRole = "target"
)

// Endpoint identifies a connectable column handle as a typed tuple. Carrying
// the table and column separately avoids the ambiguity of delimited handle
// strings when names contain the delimiter.
type Endpoint struct {
	Table  string       `json:"table"`
	Column string       `json:"column"`
	Role   EndpointRole `json:"role"`
}

// ConnectionState is the resolver's position in its gesture lifecycle.
type ConnectionState int

const (
	// StateIdle: no pending connection.
	StateIdle ConnectionState = iota
	// StateAwaitingRelationType: a connection has been drawn and the
	// resolver is waiting for the user to pick a relation type.
	StateAwaitingRelationType
)

var (
	ErrConnectionPending   = errors.New("a connection is already awaiting a relation type")
	ErrNoPendingConnection = errors.New("no pending connection")
	ErrUnknownSourceTable  = errors.New("source table does not exist")
)

// PendingConnection holds the parsed endpoints of a drawn connection until
// the user commits or cancels.
type PendingConnection struct {
	Source Endpoint
	Target Endpoint
}

// ConnectionResolver interprets a drawn connection between two column
// endpoints into a foreign-key edit. Self-loops (a table referencing itself)
// are permitted and not special-cased.
type ConnectionResolver struct {
	state   ConnectionState
	pending PendingConnection
}

func NewConnectionResolver() *ConnectionResolver {
	return &ConnectionResolver{state: StateIdle}
}

func (r *ConnectionResolver) State() ConnectionState { return r.state }

// Pending returns the parked connection while awaiting a relation type.
func (r *ConnectionResolver) Pending() (PendingConnection, bool) {
	return r.pending, r.state == StateAwaitingRelationType
}

// Begin parks a drawn connection and moves to AwaitingRelationType.
func (r *ConnectionResolver) Begin(source, target Endpoint) error {
	if r.state != StateIdle {
		return ErrConnectionPending
	}
	r.pending = PendingConnection{Source: source, Target: target}
	r.state = StateAwaitingRelationType
	return nil
}

// Cancel discards the pending connection with no mutation.
func (r *ConnectionResolver) Cancel() {
	r.pending = PendingConnection{}
	r.state = StateIdle
}

// Commit turns the pending connection into a foreign key on the source table
// and returns the resulting schema. An empty relation type defaults to 1:n.
// If an identical foreign key (same column and reference target) already
// exists, the schema is returned unchanged; repeating a gesture must not
// accumulate duplicate edges. Either way the resolver returns to Idle.
func (r *ConnectionResolver) Commit(schema models.SchemaData, relationType string) (models.SchemaData, bool, error) {
	if r.state != StateAwaitingRelationType {
		return schema, false, ErrNoPendingConnection
	}
	pending := r.pending
	r.Cancel()

	idx := schema.TableIndex(pending.Source.Table)
	if idx < 0 {
		return schema, false, ErrUnknownSourceTable
	}

	if relationType == "" {
		relationType = models.RelationOneToMany
	}
	fk := models.ForeignKey{
		Column: pending.Source.Column,
		References: models.Reference{
			Table:  pending.Target.Table,
			Column: pending.Target.Column,
		},
		RelationType: relationType,
	}

	if schema.Tables[idx].HasForeignKey(fk) {
		return schema, false, nil
	}

	next := schema.Clone()
	next.Tables[idx].ForeignKeys = append(next.Tables[idx].ForeignKeys, fk)
	return next, true, nil
}
