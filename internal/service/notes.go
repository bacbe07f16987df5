package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/inkpad/backend/internal/db"
	"github.com/inkpad/backend/internal/model"
)

// ErrNoteNotFound covers both a missing note and a note owned by someone
// else; callers cannot tell the two apart.
var ErrNoteNotFound = errors.New("note not found")

// NoteStore is the persistence surface for notes. *db.Postgres satisfies it.
type NoteStore interface {
	UpsertNote(ctx context.Context, note *model.Note) (*model.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error)
	DeleteNote(ctx context.Context, noteID, ownerID uuid.UUID) (bool, error)
}

type NoteService struct {
	store NoteStore
}

func NewNoteService(store NoteStore) *NoteService {
	return &NoteService{store: store}
}

// Upsert creates or updates a note for ownerID. A missing or unparseable id
// mints a new one. The owner is always the authenticated subject, never
// client input; color is stored as an opaque string.
func (s *NoteService) Upsert(ctx context.Context, ownerID uuid.UUID, req model.UpsertNoteRequest) (*model.Note, error) {
	id, err := uuid.Parse(req.ID)
	if req.ID == "" || err != nil {
		id = uuid.New()
	}

	note := &model.Note{
		ID:      id,
		OwnerID: ownerID,
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
	}

	saved, err := s.store.UpsertNote(ctx, note)
	if err != nil {
		// No row back from the upsert means the id belongs to another
		// owner's note and the guarded update touched nothing.
		if db.IsNoRows(err) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *NoteService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	return s.store.ListNotesByOwner(ctx, ownerID)
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	deleted, err := s.store.DeleteNote(ctx, noteID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoteNotFound
	}
	return nil
}
