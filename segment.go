package main

import (
	"fmt"
	"strings"

	"github.com/go-ego/gse"
	"github.com/kljensen/snowball"
)

// Segmenter splits normalized text into tokens in reading order.
type Segmenter interface {
	Segment(text string) []string
}

// GseSegmenter wraps a dictionary/HMM Chinese segmenter. Loading the
// dictionary is slow, so build one per process; Segment is read-only and
// safe for concurrent use.
type GseSegmenter struct {
	seg *gse.Segmenter
}

// NewGseSegmenter loads the Chinese dictionary compiled into the binary and,
// if userDict is set, an extra dictionary file on top of it. ASCII runs keep
// their case so tokens stay substrings of the input.
func NewGseSegmenter(userDict string) (*GseSegmenter, error) {
	gse.ToLower = false

	seg, err := gse.NewEmbed("zh")
	if err != nil {
		return nil, fmt.Errorf("load segmentation dictionary: %w", err)
	}
	if userDict != "" {
		if err := seg.LoadDict(userDict); err != nil {
			return nil, fmt.Errorf("load user dictionary %s: %w", userDict, err)
		}
	}
	return &GseSegmenter{seg: &seg}, nil
}

func (s *GseSegmenter) Segment(text string) []string {
	if text == "" {
		return nil
	}
	return s.seg.Cut(text, true)
}

// FieldsSegmenter splits on whitespace only.
type FieldsSegmenter struct{}

func (FieldsSegmenter) Segment(text string) []string {
	return strings.Fields(text)
}

// StemmingSegmenter reduces English tokens to their snowball stem so that
// "running" and "runs" count together. Tokens with any non-ASCII-letter
// rune pass through unchanged.
type StemmingSegmenter struct {
	Next Segmenter
}

func (s StemmingSegmenter) Segment(text string) []string {
	tokens := s.Next.Segment(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isASCIIWord(tok) {
			out = append(out, tok)
			continue
		}
		stemmed, err := snowball.Stem(tok, "english", true)
		if err != nil || stemmed == "" {
			out = append(out, tok)
			continue
		}
		out = append(out, stemmed)
	}
	return out
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// NewSegmenter picks the implementation named in the configuration.
func NewSegmenter(name, userDict string, stemEnglish bool) (Segmenter, error) {
	var seg Segmenter
	switch name {
	case "", "gse":
		g, err := NewGseSegmenter(userDict)
		if err != nil {
			return nil, err
		}
		seg = g
	case "fields":
		seg = FieldsSegmenter{}
	default:
		return nil, fmt.Errorf("unknown segmenter %q", name)
	}
	if stemEnglish {
		seg = StemmingSegmenter{Next: seg}
	}
	return seg, nil
}
