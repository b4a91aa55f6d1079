package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin  = "admin"
	RoleWriter = "writer"
)

// AdminID is the reserved identifier of the single admin record.
const AdminID = "admin"

type Writer struct {
	bun.BaseModel `bun:"table:writers,alias:w"`

	ID           string    `bun:",pk" json:"id"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Role         string    `bun:",nullzero" json:"role"`
	BookCount    int       `bun:",scanonly" json:"book_count"`

	// Relations
	Books []*Book `bun:"rel:has-many,join:id=writer_id" json:"books,omitempty"`
}

func (w *Writer) IsAdmin() bool {
	return w.Role == RoleAdmin
}

// Identity returns the request-scoped identity for this writer.
func (w *Writer) Identity() *Identity {
	return &Identity{
		ID:   w.ID,
		Name: w.ID,
		Role: w.Role,
	}
}
