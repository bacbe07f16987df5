package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	OwnerID   uuid.UUID `json:"-"`
}

// UpsertNoteRequest creates or updates a note. An empty or unparseable ID
// mints a new one; the owner always comes from the authenticated subject.
type UpsertNoteRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color"`
}
