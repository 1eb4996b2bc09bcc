package models

import (
	"encoding/json"
	"time"
)

// DocumentType classifies a document's role within a project.
type DocumentType string

const (
	TypeChapter      DocumentType = "chapter"
	TypeInstructions DocumentType = "instructions"
	TypeSynopsis     DocumentType = "synopsis"
	TypeWritingStyle DocumentType = "writing_style"
	TypeCharacters   DocumentType = "characters"
	TypeLocations    DocumentType = "locations"
	TypeWorldbuild   DocumentType = "worldbuilding"
	TypePlot         DocumentType = "plot"
	TypeResearch     DocumentType = "research"
	TypeNotes        DocumentType = "notes"
	TypeOther        DocumentType = "other"
)

// DocumentTypes lists every valid document type.
var DocumentTypes = []DocumentType{
	TypeChapter, TypeInstructions, TypeSynopsis, TypeWritingStyle,
	TypeCharacters, TypeLocations, TypeWorldbuild, TypePlot,
	TypeResearch, TypeNotes, TypeOther,
}

// Valid returns true if t is one of the known document types.
func (t DocumentType) Valid() bool {
	for _, dt := range DocumentTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// Document is a titled unit of content within a project.
// Content is the authoritative rich-markup blob; WordCount is a cache
// recomputed from content on every save, never a source of truth.
type Document struct {
	ID        string       `json:"id"`
	ProjectID string       `json:"project_id"`
	Title     string       `json:"title"`
	Type      DocumentType `json:"type"`
	Content   string       `json:"content"`
	WordCount int          `json:"word_count"`
	Enabled   bool         `json:"enabled"` // participates in AI context
	Order     int          `json:"order"`   // position within its project
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// UnmarshalJSON distinguishes an absent order from an explicit zero.
// Imported documents without an order get -1, which the store repairs
// to their insertion index the next time the project is listed.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	aux := struct {
		*alias
		Order *int `json:"order"`
	}{alias: (*alias)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Order == nil {
		d.Order = -1
	} else {
		d.Order = *aux.Order
	}
	return nil
}
