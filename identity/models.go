package identity

import (
	"time"

	"github.com/goliatone/go-authform"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Address1       string     `bun:"address1" json:"address1,omitempty"`
	City           string     `bun:"city" json:"city,omitempty"`
	State          string     `bun:"state" json:"state,omitempty"`
	PostalCode     string     `bun:"postal_code" json:"postal_code,omitempty"`
	DateOfBirth    string     `bun:"date_of_birth" json:"date_of_birth,omitempty"`
	SSNLast4       string     `bun:"ssn_last4" json:"-"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// ToAuthenticatedUser maps the record onto the form's user record.
func (u *User) ToAuthenticatedUser() *authform.AuthenticatedUser {
	if u == nil {
		return nil
	}
	return &authform.AuthenticatedUser{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Address1:    u.Address1,
		City:        u.City,
		State:       u.State,
		PostalCode:  u.PostalCode,
		DateOfBirth: u.DateOfBirth,
	}
}

// last4 keeps only the trailing four digits of an SSN
func last4(ssn string) string {
	if len(ssn) <= 4 {
		return ssn
	}
	return ssn[len(ssn)-4:]
}
