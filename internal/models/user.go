package models

import (
	"fmt"
	"strings"
	"time"
)

var _ Model = (*User)(nil)

// User is someone who has saved a ranked list, identified by name.
type User struct {
	id        string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates an unsaved user with timestamps set to now.
func NewUser(name string) *User {
	now := time.Now()
	return &User{name: name, createdAt: now, updatedAt: now}
}

func (u *User) ID() string           { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id string)          { u.id = id }
func (u *User) SetName(name string)      { u.name = name }
func (u *User) SetCreatedAt(t time.Time) { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time) { u.updatedAt = t }

// Validate requires an ID and a non-blank name.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("user ID is required")
	}
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("user name is required")
	}
	return nil
}
