// store.go defines where fetched documents and their frequency tables live

package main

import (
	"errors"
	"fmt"
	"time"
)

// ErrDocumentNotFound is returned when frequencies are saved for an unknown URL.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a fetched page after cleaning. Text is NormalizedText.
type Document struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// DocumentStore keeps NormalizedText per URL so a new min_freq can be
// applied without fetching again, and the last full table for each document.
// Implementations are safe for concurrent use.
type DocumentStore interface {
	SaveDocument(doc Document) error
	Document(url string) (Document, bool, error)

	// SaveFrequencies replaces the stored table for url.
	SaveFrequencies(url string, table FrequencyTable) error
	// Frequencies returns up to limit entries in rank order; limit <= 0 means all.
	Frequencies(url string, limit int) (FrequencyTable, error)

	// Documents lists stored documents, most recently fetched first.
	Documents(limit int) ([]Document, error)
	Close() error
}

func NewStore(option, path string, reset bool) (DocumentStore, error) {
	switch option {
	case "", "inmem":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSqlStore(path, reset)
	default:
		return nil, fmt.Errorf("unknown store option %q", option)
	}
}
