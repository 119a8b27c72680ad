package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/starford/rnotes/internal/models"
)

type scanner interface {
	Scan(dest ...any) error
}

// now is the clock used for create/update times.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Second) }

// CreateUser inserts a user. Password must already be hashed.
func (db *DB) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	t := now()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (email, name, password, create_time, update_time)
		VALUES (?, ?, ?, ?, ?)
	`, u.Email, u.Name, u.Password, t, t)
	if err != nil {
		return models.User{}, classify("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, classify("create user", err)
	}
	u.ID, u.CreateTime, u.UpdateTime = int32(id), t, t
	return u, nil
}

const userColumns = `id, email, name, password, create_time, update_time`

func scanUser(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.CreateTime, &u.UpdateTime)
	return u, err
}

// UserByEmail looks a user up by login email.
func (db *DB) UserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	return u, classify("user by email", err)
}

// UserByID looks a user up by id.
func (db *DB) UserByID(ctx context.Context, id int32) (models.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, classify("user by id", err)
}

// CreateCategory inserts a category.
func (db *DB) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	t := now()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO categories (name, create_time, update_time) VALUES (?, ?, ?)
	`, name, t, t)
	if err != nil {
		return models.Category{}, classify("create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Category{}, classify("create category", err)
	}
	return models.Category{ID: int32(id), Name: name, CreateTime: t, UpdateTime: t}, nil
}

func scanCategory(s scanner) (models.Category, error) {
	var c models.Category
	err := s.Scan(&c.ID, &c.Name, &c.CreateTime, &c.UpdateTime)
	return c, err
}

// Categories returns every category ordered by id.
func (db *DB) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, create_time, update_time FROM categories ORDER BY id`)
	if err != nil {
		return nil, classify("categories", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, classify("categories", err)
		}
		out = append(out, c)
	}
	return out, classify("categories", rows.Err())
}

// Category returns one category.
func (db *DB) Category(ctx context.Context, id int32) (models.Category, error) {
	c, err := scanCategory(db.conn.QueryRowContext(ctx,
		`SELECT id, name, create_time, update_time FROM categories WHERE id = ?`, id))
	return c, classify("category", err)
}

const noteColumns = `id, user_id, category_id, title, data, create_time, update_time`

func scanNote(s scanner) (models.Note, error) {
	var (
		n   models.Note
		cat sql.NullInt32
	)
	if err := s.Scan(&n.ID, &n.UserID, &cat, &n.Title, &n.Data, &n.CreateTime, &n.UpdateTime); err != nil {
		return models.Note{}, err
	}
	if cat.Valid {
		id := cat.Int32
		n.CategoryID = &id
	}
	return n, nil
}

func nullCategory(id *int32) sql.NullInt32 {
	if id == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *id, Valid: true}
}

// NotesByUser returns the notes of one user ordered by id.
func (db *DB) NotesByUser(ctx context.Context, userID int32) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, classify("notes by user", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, classify("notes by user", err)
		}
		out = append(out, n)
	}
	return out, classify("notes by user", rows.Err())
}

// Note returns one note if it belongs to userID.
func (db *DB) Note(ctx context.Context, id, userID int32) (models.Note, error) {
	n, err := scanNote(db.conn.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, id, userID))
	return n, classify("note", err)
}

// CreateNote inserts a note for n.UserID.
func (db *DB) CreateNote(ctx context.Context, n models.Note) (models.Note, error) {
	t := now()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (user_id, category_id, title, data, create_time, update_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.UserID, nullCategory(n.CategoryID), n.Title, n.Data, t, t)
	if err != nil {
		return models.Note{}, classify("create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, classify("create note", err)
	}
	n.ID, n.CreateTime, n.UpdateTime = int32(id), t, t
	return n, nil
}

// UpdateNote replaces title, data and category of a note owned by n.UserID.
func (db *DB) UpdateNote(ctx context.Context, n models.Note) (models.Note, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, classify("update note: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE notes SET category_id = ?, title = ?, data = ?, update_time = ?
		WHERE id = ? AND user_id = ?
	`, nullCategory(n.CategoryID), n.Title, n.Data, now(), n.ID, n.UserID)
	if err != nil {
		return models.Note{}, classify("update note", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return models.Note{}, classify("update note", sql.ErrNoRows)
	}

	updated, err := scanNote(tx.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, n.ID))
	if err != nil {
		return models.Note{}, classify("update note", err)
	}
	return updated, classify("update note: commit", tx.Commit())
}

// DeleteNote removes a note owned by userID and reports whether a row was deleted.
func (db *DB) DeleteNote(ctx context.Context, id, userID int32) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, classify("delete note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, classify("delete note", err)
	}
	return affected > 0, nil
}
