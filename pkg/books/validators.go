package books

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
)

// BookPayload is the create and update form for a book.
type BookPayload struct {
	Title       string `form:"title" json:"title" mod:"trim" validate:"required,max=200"`
	Author      string `form:"author" json:"author" mod:"trim" validate:"required,max=200"`
	Genre       string `form:"genre" json:"genre" mod:"trim" validate:"required,oneof=FICTION NON_FICTION"`
	Synopsis    string `form:"synopsis" json:"synopsis" mod:"strip_html,trim" validate:"min=10,max=10000"`
	DocumentURL string `form:"document_url" json:"document_url" mod:"trim" validate:"omitempty,max=2048,httpurl"`
	// WriterID is accepted so existing forms keep working, but ownership
	// always comes from the session.
	WriterID string `form:"writer_id" json:"writer_id" mod:"trim"`
}

func (p BookPayload) options() BookOptions {
	opts := BookOptions{
		Title:    p.Title,
		Author:   p.Author,
		Genre:    models.Genre(p.Genre),
		Synopsis: p.Synopsis,
	}
	if p.DocumentURL != "" {
		url := p.DocumentURL
		opts.DocumentURL = &url
	}
	return opts
}

type ListBooksQuery struct {
	Limit  int `query:"limit" json:"limit" default:"24" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset" validate:"min=0"`
}

type ExploreQuery struct {
	Limit  int    `query:"limit" json:"limit" default:"24" validate:"min=1,max=100"`
	Offset int    `query:"offset" json:"offset" validate:"min=0"`
	Search string `query:"search" json:"search" mod:"trim" validate:"max=100"`
}
