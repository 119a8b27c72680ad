// Package models defines the domain types and wire payloads shared by the
// rnotes server and the rnotes CLI.
package models

import "time"

// User is a registered account. Password holds a bcrypt hash of the
// client-side password digest, never the clear-text password.
type User struct {
	ID         int32
	Email      string
	Name       string
	Password   string
	CreateTime time.Time
	UpdateTime time.Time
}

// Category groups notes. Categories are shared by all users.
type Category struct {
	ID         int32
	Name       string
	CreateTime time.Time
	UpdateTime time.Time
}

// Note is a single note owned by a user.
type Note struct {
	ID         int32
	UserID     int32
	CategoryID *int32
	Title      string
	Data       string
	CreateTime time.Time
	UpdateTime time.Time
}

// LoginIn is the body of POST /auth/login. Password is the hex SHA-256
// digest computed by the client.
type LoginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginOut is the response of a successful login.
type LoginOut struct {
	JWTToken string `json:"jwt_token"`
}

// CategoryOut is the wire representation of a category.
type CategoryOut struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
}

// NoteIn is the body of note create and update requests.
type NoteIn struct {
	Title      string `json:"title"`
	Data       string `json:"data"`
	CategoryID *int32 `json:"category_id,omitempty"`
}

// NoteOut is the wire representation of a note.
type NoteOut struct {
	ID         int32  `json:"id"`
	CategoryID *int32 `json:"category_id"`
	Title      string `json:"title"`
	Data       string `json:"data"`
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
}

// ErrorOut is the JSON body of every 4xx/5xx response.
type ErrorOut struct {
	Error  int    `json:"error"`
	Detail string `json:"detail"`
}

// NewCategoryOut converts a category to its wire form with RFC 3339 timestamps.
func NewCategoryOut(c Category) CategoryOut {
	return CategoryOut{
		ID:         c.ID,
		Name:       c.Name,
		CreateTime: c.CreateTime.UTC().Format(time.RFC3339),
		UpdateTime: c.UpdateTime.UTC().Format(time.RFC3339),
	}
}

// NewNoteOut converts a note to its wire form with RFC 3339 timestamps.
func NewNoteOut(n Note) NoteOut {
	return NoteOut{
		ID:         n.ID,
		CategoryID: n.CategoryID,
		Title:      n.Title,
		Data:       n.Data,
		CreateTime: n.CreateTime.UTC().Format(time.RFC3339),
		UpdateTime: n.UpdateTime.UTC().Format(time.RFC3339),
	}
}
