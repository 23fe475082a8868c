package models

import "time"

type CreatorRole string

const (
	CreatorRoleWriter    CreatorRole = "writer"
	CreatorRolePublisher CreatorRole = "publisher"
)

// LockedPassword is the sentinel stored in place of a hash for a locked
// account. Login must reject it before any hash verification.
const LockedPassword = "LOCKED"

// A Creator is someone who can author content on the site.
// Username is the immutable identifier; DisplayName may change freely.
type Creator struct {
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Password    string      `json:"password"`
	Biography   string      `json:"biography"`
	JoinedAt    time.Time   `json:"joined_at"`
	Role        CreatorRole `json:"role"`
}

func (c Creator) IsPublisher() bool {
	return c.Role == CreatorRolePublisher
}

func (c Creator) IsLocked() bool {
	return c.Password == LockedPassword
}
