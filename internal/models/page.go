package models

import "inkwell/api/internal/blocks"

// A Page is a static page addressed by path rather than id.
type Page struct {
	Path     string
	Title    string
	TextBody []blocks.Block
}
