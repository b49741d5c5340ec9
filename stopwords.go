package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// common Chinese function words used when no stopword file can be read
var defaultStopwords = []string{
	"的", "了", "在", "是", "和", "为", "等", "有", "也", "就", "都", "不", "而", "之",
}

// StopwordSet is built once at start-up and only read afterwards, so it can
// be shared by concurrent requests.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set for fast lookup. Words are trimmed; empty ones are skipped.
func NewStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func DefaultStopwords() StopwordSet {
	return NewStopwordSet(defaultStopwords)
}

func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s StopwordSet) Len() int { return len(s) }

// LoadStopwords reads a newline-delimited word list. It never returns an
// empty set: any failure falls back to the built-in list and is reported on
// diag as a StopwordLoadWarning.
func LoadStopwords(path string, diag *Diagnostics) StopwordSet {
	words, err := readStopwords(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		diag.Warn(StopwordLoadWarning, fmt.Sprintf("stopword file %q not found, using default stopwords", path))
		return DefaultStopwords()
	case err != nil:
		diag.Warn(StopwordLoadWarning, fmt.Sprintf("reading stopword file failed: %v, using default stopwords", err))
		return DefaultStopwords()
	}

	set := NewStopwordSet(words)
	if set.Len() == 0 {
		diag.Warn(StopwordLoadWarning, fmt.Sprintf("stopword file %q has no words, using default stopwords", path))
		return DefaultStopwords()
	}
	return set
}

func readStopwords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
