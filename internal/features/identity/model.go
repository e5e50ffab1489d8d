package identity

import (
	"time"
)

// Role is the closed set of platform roles.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleRescuer Role = "rescuer"
	RoleShelter Role = "shelter"
	RoleVet     Role = "vet"
	RoleAdmin   Role = "admin"
)

// Actor is the authenticated caller: id and resolved role, nothing more.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the actor holds the admin override.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Profile is the stored user record the platform keeps for display and role lookup.
type Profile struct {
	ID          string    `bson:"_id" json:"id"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"displayName" json:"displayName"`
	AvatarURL   string    `bson:"avatarUrl" json:"avatarUrl"`
	Role        Role      `bson:"role" json:"role"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DevTokenRequest is the payload for issuing a development token
type DevTokenRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role" binding:"required"`
}

// DevTokenResponse carries the issued token
type DevTokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Profile     *Profile  `json:"profile"`
}
