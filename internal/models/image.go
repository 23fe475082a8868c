package models

import "time"

// Image is the metadata record for an uploaded asset. The bytes live in
// the object store at three derived renditions keyed by the id; record and
// objects are created and deleted together.
type Image struct {
	ID          string
	Author      string
	Description *string
	Tags        []string
	CreatedAt   time.Time
}
