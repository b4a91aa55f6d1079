package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID            string    `bun:",pk" json:"id"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	Title         string    `bun:",nullzero" json:"title"`
	Author        string    `bun:",nullzero" json:"author"`
	Genre         Genre     `bun:",nullzero" json:"genre"`
	Synopsis      string    `json:"synopsis"`
	DocumentURL   *string   `bun:"document_url" json:"document_url"`
	PublishedDate time.Time `json:"published_date"`
	WriterID      string    `bun:",nullzero" json:"writer_id"`

	Writer *Writer `bun:"rel:belongs-to,join:writer_id=id" json:"writer,omitempty"`
}

// HasDocument reports whether an uploaded document is attached.
func (b *Book) HasDocument() bool {
	return b.DocumentURL != nil && *b.DocumentURL != ""
}
