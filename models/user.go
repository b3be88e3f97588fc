// path: models/user.go
package models

import (
	"strings"
	"time"
)

// Role is a closed variant; view and permission dispatch must match it
// exhaustively.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCitizen:
		return RoleCitizen, true
	case RoleAuthority:
		return RoleAuthority, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User is an account document, keyed by the auth identity. Role is fixed
// at registration: self-service signup only ever produces citizens;
// authority and admin accounts are provisioned out of band.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	NationalID   string    `bson:"national_id" json:"national_id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Label is the display identity stamped onto reports the user submits.
func (u User) Label() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Email
}
