package models

import (
	"time"

	"github.com/google/uuid"
)

// Share access values stored on a schema record. "none" disables the share
// link entirely; the token is cleared when sharing is turned off.
const (
	ShareAccessNone = "none"
	ShareAccessView = "view"
	ShareAccessEdit = "edit"
)

// Schema is the persisted wrapper around SchemaData: ownership, naming,
// visibility and share settings. Data is stored as jsonb.
type Schema struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Data        SchemaData `json:"data"`
	IsPublic    bool       `json:"is_public"`
	ShareToken  string     `json:"share_token,omitempty"`
	ShareAccess string     `json:"share_access"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (s *Schema) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ShareAccess == "" {
		s.ShareAccess = ShareAccessNone
	}
}

// SchemaWithAccess is the load-time view of a schema: the record plus the
// access level resolved for the requesting party (owner, edit or view).
type SchemaWithAccess struct {
	Schema
	AccessLevel string `json:"access_level"`
}
