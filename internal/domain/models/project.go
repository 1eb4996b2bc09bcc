package models

import (
	"time"
)

// Project is a top-level grouping of documents representing one writing work.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	TargetWords *int      `json:"target_words,omitempty"` // optional goal
	WordCount   int       `json:"word_count"`             // aggregate over documents, derived
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
