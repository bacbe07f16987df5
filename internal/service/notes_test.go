package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpad/backend/internal/model"
)

// fakeNoteStore mirrors the guarded upsert: an id collision with another
// owner's note yields pgx.ErrNoRows, same as the postgres implementation.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]model.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: map[uuid.UUID]model.Note{}}
}

func (f *fakeNoteStore) UpsertNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.notes[note.ID]; ok {
		if existing.OwnerID != note.OwnerID {
			return nil, pgx.ErrNoRows
		}
		existing.Title = note.Title
		existing.Content = note.Content
		existing.Color = note.Color
		f.notes[note.ID] = existing
		return &existing, nil
	}
	saved := *note
	saved.CreatedAt = time.Now()
	f.notes[note.ID] = saved
	return &saved, nil
}

func (f *fakeNoteStore) ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes := []model.Note{}
	for _, note := range f.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (f *fakeNoteStore) DeleteNote(ctx context.Context, noteID, ownerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[noteID]
	if !ok || note.OwnerID != ownerID {
		return false, nil
	}
	delete(f.notes, noteID)
	return true, nil
}

func TestUpsertMintsID(t *testing.T) {
	svc := NewNoteService(newFakeNoteStore())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Upsert(ctx, owner, model.UpsertNoteRequest{Title: "N", Content: "C", Color: "#fff"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	// An unparseable id also mints a fresh one.
	other, err := svc.Upsert(ctx, owner, model.UpsertNoteRequest{ID: "not-a-uuid", Title: "M"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}

func TestUpsertUpdatesInPlace(t *testing.T) {
	svc := NewNoteService(newFakeNoteStore())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Upsert(ctx, owner, model.UpsertNoteRequest{Title: "N", Content: "C", Color: "#fff"})
	require.NoError(t, err)

	updated, err := svc.Upsert(ctx, owner, model.UpsertNoteRequest{
		ID: created.ID.String(), Title: "N2", Content: "C2", Color: "tomato",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "N2", updated.Title)
	assert.Equal(t, "tomato", updated.Color)

	notes, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestUpsertCannotTouchForeignNote(t *testing.T) {
	svc := NewNoteService(newFakeNoteStore())
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	created, err := svc.Upsert(ctx, owner, model.UpsertNoteRequest{Title: "N"})
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, intruder, model.UpsertNoteRequest{ID: created.ID.String(), Title: "stolen"})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	notes, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "N", notes[0].Title)
}

func TestListScopedToOwner(t *testing.T) {
	svc := NewNoteService(newFakeNoteStore())
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, err := svc.Upsert(ctx, alice, model.UpsertNoteRequest{Title: "alice's"})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, bob, model.UpsertNoteRequest{Title: "bob's"})
	require.NoError(t, err)

	notes, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "alice's", notes[0].Title)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	svc := NewNoteService(newFakeNoteStore())
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	created, err := svc.Upsert(ctx, owner, model.UpsertNoteRequest{Title: "N"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, intruder, created.ID), ErrNoteNotFound)

	notes, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner, created.ID), ErrNoteNotFound)
}
