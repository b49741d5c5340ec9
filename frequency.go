package main

import (
	"sort"
	"unicode/utf8"
)

const (
	// TopK is the size of the summary table and of every chart.
	TopK = 20

	// minTokenRunes drops single characters regardless of frequency.
	minTokenRunes = 2
)

type FrequencyEntry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FrequencyTable is ordered by count descending; equal counts keep the order
// in which the words first appeared in the token stream.
type FrequencyTable []FrequencyEntry

func (t FrequencyTable) Len() int           { return len(t) }
func (t FrequencyTable) Swap(i, j int)      { t[i], t[j] = t[j], t[i] }
func (t FrequencyTable) Less(i, j int) bool { return t[i].Count > t[j].Count }

// Sort relies on sort.Stable for the first-occurrence tie break.
func (t FrequencyTable) Sort() { sort.Stable(t) }

// Top returns at most k leading entries as a new table.
func (t FrequencyTable) Top(k int) FrequencyTable {
	if k > len(t) {
		k = len(t)
	}
	if k < 0 {
		k = 0
	}
	out := make(FrequencyTable, k)
	copy(out, t[:k])
	return out
}

func (t FrequencyTable) Words() []string {
	words := make([]string, len(t))
	for i, e := range t {
		words[i] = e.Word
	}
	return words
}

func (t FrequencyTable) Counts() []int {
	counts := make([]int, len(t))
	for i, e := range t {
		counts[i] = e.Count
	}
	return counts
}

// Total is the number of counted tokens behind the table.
func (t FrequencyTable) Total() int {
	n := 0
	for _, e := range t {
		n += e.Count
	}
	return n
}

// CountTokens filters and counts tokens, returning every distinct word in
// first-occurrence order.
func CountTokens(tokens []string, stopwords StopwordSet) FrequencyTable {
	index := make(map[string]int)
	var table FrequencyTable
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minTokenRunes {
			continue
		}
		if stopwords.Contains(tok) {
			continue
		}
		if i, ok := index[tok]; ok {
			table[i].Count++
			continue
		}
		index[tok] = len(table)
		table = append(table, FrequencyEntry{Word: tok, Count: 1})
	}
	return table
}

// Rank counts the tokens and sorts the result. No floor is applied.
func Rank(tokens []string, stopwords StopwordSet) FrequencyTable {
	table := CountTokens(tokens, stopwords)
	table.Sort()
	return table
}

// Floor keeps the entries whose count is at least minFreq, preserving order.
// minFreq below 1 is treated as 1.
func (t FrequencyTable) Floor(minFreq int) FrequencyTable {
	if minFreq < 1 {
		minFreq = 1
	}
	out := make(FrequencyTable, 0, len(t))
	for _, e := range t {
		if e.Count >= minFreq {
			out = append(out, e)
		}
	}
	return out
}

// Analyze ranks tokens by frequency and applies the minFreq floor. It
// returns the top 20 entries and the full filtered table. Both are empty
// when nothing survives; that is not an error.
func Analyze(tokens []string, stopwords StopwordSet, minFreq int) (top, table FrequencyTable) {
	table = Rank(tokens, stopwords).Floor(minFreq)
	return table.Top(TopK), table
}
