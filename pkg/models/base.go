package models

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and audit fields shared by every stored entity.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase mints an identity with both audit timestamps set to now.
func NewBase(now time.Time) Base {
	now = now.UTC()
	return Base{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch rewrites the update timestamp. Every mutation path calls this.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

// GetID satisfies the repository entity contract.
func (b Base) GetID() string {
	return b.ID
}
