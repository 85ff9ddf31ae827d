// Package models holds the persistent record types shared by services
// and repositories.
package models

import "time"

// User is an authenticated principal. UserKey is the short public
// identifier exposed externally in place of ID; it is allocated once at
// provisioning time and never changes. The persistent row is always the
// source of truth for authorization-sensitive fields such as IsAdmin;
// token claims only cache them.
type User struct {
	ID        string
	Email     string
	Name      string
	UserKey   string
	IsAdmin   bool
	CreatedAt time.Time
}
