package main

import (
	"fmt"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	docs        map[string]Document       // url -> document
	frequencies map[string]FrequencyTable // url -> full table of the last analysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:        make(map[string]Document),
		frequencies: make(map[string]FrequencyTable),
	}
}

func (s *MemoryStore) SaveDocument(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.URL] = doc
	return nil
}

func (s *MemoryStore) Document(url string) (Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[url]
	return doc, ok, nil
}

func (s *MemoryStore) SaveFrequencies(url string, table FrequencyTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[url]; !ok {
		return fmt.Errorf("save frequencies for %s: %w", url, ErrDocumentNotFound)
	}
	s.frequencies[url] = table.Top(len(table))
	return nil
}

func (s *MemoryStore) Frequencies(url string, limit int) (FrequencyTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table := s.frequencies[url]
	if limit <= 0 {
		limit = len(table)
	}
	return table.Top(limit), nil
}

func (s *MemoryStore) Documents(limit int) ([]Document, error) {
	s.mu.RLock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FetchedAt.Equal(out[j].FetchedAt) {
			return out[i].URL < out[j].URL
		}
		return out[i].FetchedAt.After(out[j].FetchedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
