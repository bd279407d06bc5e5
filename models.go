package hivekeeper

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a beekeeper account. Created on registration, mutated by profile
// updates; the auth subsystem never deletes rows.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName       string     `bun:"first_name" json:"first_name,omitempty"`
	LastName        string     `bun:"last_name" json:"last_name,omitempty"`
	Email           string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone           string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash    string     `bun:"password_hash,notnull" json:"-"`
	KeeperNumber    *int       `bun:"keeper_number" json:"keeper_number,omitempty"`
	BirthDate       *time.Time `bun:"birth_date,nullzero" json:"birth_date,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// FullName joins first and last name for display and logs.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Session is the server side record of one issued token. The validity flag
// and expiry are tracked independently of the JWT's own exp claim so a
// revoked session dies before its token does.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:ses"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID    uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User      *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Token     string     `bun:"token,notnull" json:"token,omitempty"`
	UserAgent string     `bun:"user_agent" json:"user_agent,omitempty"`
	IPAddress string     `bun:"ip_address" json:"ip_address,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	ExpiresAt time.Time  `bun:"expires_at,notnull" json:"expires_at"`
	Valid     bool       `bun:"valid,notnull" json:"valid"`
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
