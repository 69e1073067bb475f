package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the registration state of a user.
type UserStatus string

// Possible user status values.
const (
	// UserStatusRegistered marks a fully registered user with an email
	// and an opaque credential.
	UserStatusRegistered UserStatus = "registered"

	// UserStatusPlaceholder marks a minimal participant created with only
	// a name, e.g. a guest added to a group before they sign up. A
	// placeholder carries no credential and cannot authenticate until
	// promoted.
	UserStatusPlaceholder UserStatus = "placeholder"
)

// DefaultAuthority is the single role granted to every registered user.
// The core does not model any richer authority scheme; the external
// authentication collaborator interprets this value.
const DefaultAuthority = "ROLE_USER"

// Common validation errors for User.
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrEmptyUserName     = errors.New("user name cannot be empty")
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrEmptyCredential   = errors.New("credential cannot be empty")
	ErrInvalidUserStatus = errors.New("invalid user status")
	ErrNotPlaceholder    = errors.New("user is not a placeholder")
)

// User is a participant in the ledger. A user can own and belong to
// groups, pay expenses, owe expense shares, and send or receive
// settlements; those relationships are held by the respective records and
// the store, not on the User struct itself.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// Email doubles as the username for the external authentication
	// collaborator. Unique across all users; empty for placeholders.
	Email string `json:"email,omitempty"`

	// HashedPassword is the opaque credential stored on behalf of the
	// authentication collaborator. The core never inspects it beyond
	// checking presence. Never expose in JSON.
	HashedPassword string `json:"-"`

	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewUser creates a fully registered user with the given name, email and
// opaque (already hashed) credential. It generates a random UUID for the
// user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewUser(name, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Status:         UserStatusRegistered,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NewPlaceholderUser creates a minimal participant with only a display
// name. Placeholders cannot authenticate; see Promote.
func NewPlaceholderUser(name string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Status:    UserStatusPlaceholder,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data for its status.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyUserName
	}

	switch u.Status {
	case UserStatusRegistered:
		if u.Email == "" {
			return ErrEmptyEmail
		}
		if !validEmailFormat(u.Email) {
			return ErrInvalidEmail
		}
		if u.HashedPassword == "" {
			return ErrEmptyCredential
		}
	case UserStatusPlaceholder:
		// Placeholders carry neither email nor credential.
	default:
		return ErrInvalidUserStatus
	}

	return nil
}

// CanAuthenticate reports whether the authentication collaborator may
// treat this user as authenticable. Callers must check this before using
// the credential; placeholders always return false.
func (u *User) CanAuthenticate() bool {
	return u.Status == UserStatusRegistered && u.HashedPassword != ""
}

// Username returns the identifier the authentication collaborator looks
// users up by, which is the email address.
func (u *User) Username() string {
	return u.Email
}

// Authorities returns the authorities granted to the user. Every
// registered user holds exactly the default role; placeholders hold none.
func (u *User) Authorities() []string {
	if u.Status != UserStatusRegistered {
		return nil
	}
	return []string{DefaultAuthority}
}

// Promote upgrades a placeholder into a registered user with the given
// email and opaque credential. Returns ErrNotPlaceholder if the user is
// already registered.
func (u *User) Promote(email, hashedPassword string) error {
	if u.Status != UserStatusPlaceholder {
		return fmt.Errorf("%w: %s", ErrNotPlaceholder, u.ID)
	}

	promoted := *u
	promoted.Email = email
	promoted.HashedPassword = hashedPassword
	promoted.Status = UserStatusRegistered
	if err := promoted.Validate(); err != nil {
		return err
	}

	*u = promoted
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Equal reports record identity: two users are equal iff both have an
// assigned id and the ids match. A user without an id equals nothing,
// not even itself.
func (u *User) Equal(other *User) bool {
	if other == nil || u.ID == uuid.Nil || other.ID == uuid.Nil {
		return false
	}
	return u.ID == other.ID
}

// validEmailFormat performs a basic structural check: one '@' with a
// non-empty local part and a dotted domain. Callers needing RFC 5322
// strictness should validate upstream.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
