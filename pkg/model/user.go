package model

import "time"

// User is an account identified by a unique lowercase handle. IsAdmin is
// derived from the provisioned admin handle at registration and recomputed
// on every login; it is never accepted from the client.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username" validate:"required,min=3,max=30"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Timezone     string    `json:"timezone" bson:"timezone" validate:"required,timezone"`
	IsAdmin      bool      `json:"is_admin" bson:"is_admin"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Identity is the authenticated caller resolved from a bearer token. Admin
// status always comes from the stored user record, never from the request.
type Identity struct {
	ID       string
	Username string
	IsAdmin  bool
}
