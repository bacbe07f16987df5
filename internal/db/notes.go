package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkpad/backend/internal/model"
)

// UpsertNote inserts the note or, when the id already exists, updates it in
// place. The owner guard on the update path means an id collision with
// another user's note updates nothing and surfaces as no rows.
func (db *Postgres) UpsertNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	query := `
		INSERT INTO notes (id, owner_id, title, content, color, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, color = EXCLUDED.color
		WHERE notes.owner_id = EXCLUDED.owner_id
		RETURNING id, owner_id, title, content, color, created_at
	`
	var saved model.Note
	err := db.Pool.QueryRow(ctx, query, note.ID, note.OwnerID, note.Title, note.Content, note.Color).Scan(
		&saved.ID,
		&saved.OwnerID,
		&saved.Title,
		&saved.Content,
		&saved.Color,
		&saved.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (db *Postgres) ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	query := `
		SELECT id, owner_id, title, content, color, created_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var note model.Note
		if err := rows.Scan(
			&note.ID,
			&note.OwnerID,
			&note.Title,
			&note.Content,
			&note.Color,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// DeleteNote removes the note only when it belongs to ownerID and reports
// whether a row was deleted.
func (db *Postgres) DeleteNote(ctx context.Context, noteID, ownerID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM notes
		WHERE id = $1 AND owner_id = $2
	`
	tag, err := db.Pool.Exec(ctx, query, noteID, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
