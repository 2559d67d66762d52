package editor

// AccessLevel is the capability a party holds on a schema: the owner, an
// edit-grant collaborator, or a view-only collaborator.
type AccessLevel string

const (
	AccessOwner AccessLevel = "owner"
	AccessEdit  AccessLevel = "edit"
	AccessView  AccessLevel = "view"
)

// CanMutate reports whether this level may change the schema. View-only
// sessions never receive mutating entry points at all (see Session.Editor),
// so enforcement is structural rather than a runtime rejection.
func (l AccessLevel) CanMutate() bool {
	return l == AccessOwner || l == AccessEdit
}
