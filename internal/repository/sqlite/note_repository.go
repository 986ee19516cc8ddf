package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"noteshare/internal/domain"
	"noteshare/internal/repository"
)

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	is_public INTEGER NOT NULL DEFAULT 0,
	owner_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_owner ON notes(owner_id);
CREATE INDEX IF NOT EXISTS idx_notes_public ON notes(is_public, updated_at);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (int64, error) {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notes (title, body, is_public, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		note.Title,
		note.Body,
		note.IsPublic,
		note.OwnerID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("note last insert id: %w", err)
	}
	note.ID = id
	return id, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, body, is_public, owner_id, created_at, updated_at
FROM notes
WHERE id = ?`,
		id,
	)
	return scanNote(row)
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, body, is_public, owner_id, created_at, updated_at
FROM notes
WHERE owner_id = ?
ORDER BY updated_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Body,
			&note.IsPublic,
			&note.OwnerID,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) ListPublic(ctx context.Context) ([]domain.PublicNote, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT n.id, n.title, n.body, n.is_public, n.owner_id, n.created_at, n.updated_at, u.username
FROM notes n
JOIN users u ON u.id = n.owner_id
WHERE n.is_public = 1
ORDER BY n.updated_at DESC, n.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list public notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.PublicNote
	for rows.Next() {
		var note domain.PublicNote
		if err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Body,
			&note.IsPublic,
			&note.OwnerID,
			&note.CreatedAt,
			&note.UpdatedAt,
			&note.OwnerUsername,
		); err != nil {
			return nil, fmt.Errorf("scan public note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate public notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) GetPublicByID(ctx context.Context, id int64) (*domain.PublicNote, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT n.id, n.title, n.body, n.is_public, n.owner_id, n.created_at, n.updated_at, u.username
FROM notes n
JOIN users u ON u.id = n.owner_id
WHERE n.id = ? AND n.is_public = 1`,
		id,
	)

	var note domain.PublicNote
	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Body,
		&note.IsPublic,
		&note.OwnerID,
		&note.CreatedAt,
		&note.UpdatedAt,
		&note.OwnerUsername,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan shared note: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) UpdateContent(ctx context.Context, id int64, title, body string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title = ?, body = ?, updated_at = ?
WHERE id = ?`,
		title,
		body,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireRow(res)
}

func (r *NoteRepository) UpdateVisibility(ctx context.Context, id int64, isPublic bool) error {
	// updated_at advances even when the flag already holds the value
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET is_public = ?, updated_at = ?
WHERE id = ?`,
		isPublic,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update note visibility: %w", err)
	}
	return requireRow(res)
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireRow(res)
}

func scanNote(row *sql.Row) (*domain.Note, error) {
	var note domain.Note
	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Body,
		&note.IsPublic,
		&note.OwnerID,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &note, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
