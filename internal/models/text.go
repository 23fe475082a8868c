package models

import (
	"time"

	"github.com/gosimple/slug"

	"inkwell/api/internal/blocks"
)

type TextType string

const (
	TextTypeArticle  TextType = "article"
	TextTypeCoverage TextType = "coverage"
	TextTypeOpinion  TextType = "opinion"
	TextTypeOther    TextType = "other"
)

// A Text is an article-like unit of content composed of ordered blocks.
// Author references a Creator by username; it is not ownership of the row.
type Text struct {
	ID            int64
	Title         string
	TitleSlug     string
	Author        string
	Thumbnail     *string
	LeadParagraph string
	TextBody      []blocks.Block
	TextType      TextType
	Tags          []string
	IsPublished   bool
	MarkedAsDone  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Slugify derives the URL slug for a title. Callers must re-derive the
// slug on every title change; a stored slug is never reused after an edit.
func Slugify(title string) string {
	return slug.Make(title)
}
