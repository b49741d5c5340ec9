package main

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(s string) []string { return FieldsSegmenter{}.Segment(s) }

// -------------------------------------------------------
// TestAnalyzeScenario
// -------------------------------------------------------
func TestAnalyzeScenario(t *testing.T) {
	stop := NewStopwordSet([]string{"的", "了"})
	top, table := Analyze(tokens("数据分析 数据分析 人工智能 人工智能 人工智能 的 了"), stop, 1)

	want := FrequencyTable{{Word: "人工智能", Count: 3}, {Word: "数据分析", Count: 2}}
	assert.Equal(t, want, table)
	assert.Equal(t, want, top)

	for _, kind := range []ChartKind{Bar, Pie} {
		s := ToSeries(top, kind)
		assert.Equal(t, []string{"人工智能", "数据分析"}, s.Labels, kind.String())
		assert.Equal(t, []int{3, 2}, s.Values, kind.String())
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		stopwords []string
		minFreq   int
		want      FrequencyTable
	}{
		{
			name: "single characters are always dropped",
			text: "a b c 我 我 我 我 go go",
			want: FrequencyTable{{"go", 2}},
		},
		{
			name:      "stopwords are dropped even when frequent",
			text:      "我们 我们 我们 学习 学习",
			stopwords: []string{"我们"},
			want:      FrequencyTable{{"学习", 2}},
		},
		{
			name: "ties keep first occurrence order",
			text: "beta alpha gamma alpha beta gamma delta",
			want: FrequencyTable{{"beta", 2}, {"alpha", 2}, {"gamma", 2}, {"delta", 1}},
		},
		{
			name:    "floor removes low counts",
			text:    "xx yy yy zz zz zz",
			minFreq: 2,
			want:    FrequencyTable{{"zz", 3}, {"yy", 2}},
		},
		{
			name:    "floor above every count empties the table",
			text:    "xx yy yy zz zz zz",
			minFreq: 5,
			want:    FrequencyTable{},
		},
		{
			name:    "floor below one behaves like one",
			text:    "xx yy",
			minFreq: 0,
			want:    FrequencyTable{{"xx", 1}, {"yy", 1}},
		},
		{
			name: "exact match only, case is significant",
			text: "Go go GO go",
			want: FrequencyTable{{"go", 2}, {"Go", 1}, {"GO", 1}},
		},
		{
			name: "no tokens",
			text: "",
			want: FrequencyTable{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			top, table := Analyze(tokens(tc.text), NewStopwordSet(tc.stopwords), tc.minFreq)
			assert.Equal(t, tc.want, table)
			assert.Equal(t, tc.want.Top(TopK), top)
		})
	}
}

func TestAnalyzeAllSingleCharacters(t *testing.T) {
	seg := FieldsSegmenter{}
	top, table := Analyze(seg.Segment("数 据 分 析 数 据"), DefaultStopwords(), 1)
	assert.Empty(t, table)
	assert.Empty(t, top)
	assert.True(t, ToSeries(top, Radar).Empty())
}

// buildTokens makes n distinct words where word i appears n-i times.
func buildTokens(n int) []string {
	var toks []string
	for i := 0; i < n; i++ {
		for j := 0; j < n-i; j++ {
			toks = append(toks, fmt.Sprintf("w%02d", i))
		}
	}
	return toks
}

func TestAnalyzeProperties(t *testing.T) {
	toks := append(buildTokens(30), "x", "的", "的", "的", "了", "y")
	stop := DefaultStopwords()

	prev := -1
	for minFreq := 1; minFreq <= 10; minFreq++ {
		top, table := Analyze(toks, stop, minFreq)

		assert.Len(t, top, min(TopK, len(table)), "top size at min_freq %d", minFreq)
		assert.Equal(t, table[:len(top)], top)

		for i, e := range table {
			assert.GreaterOrEqual(t, utf8.RuneCountInString(e.Word), 2)
			assert.False(t, stop.Contains(e.Word), "stopword %q counted", e.Word)
			assert.GreaterOrEqual(t, e.Count, minFreq)
			if i > 0 {
				assert.GreaterOrEqual(t, table[i-1].Count, e.Count, "not sorted at %d", i)
			}
		}

		if prev >= 0 {
			assert.LessOrEqual(t, len(table), prev, "raising min_freq grew the table")
		}
		prev = len(table)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	toks := tokens(strings.Repeat("苹果 香蕉 橘子 香蕉 苹果 西瓜 ", 5))
	top1, table1 := Analyze(toks, DefaultStopwords(), 2)
	top2, table2 := Analyze(toks, DefaultStopwords(), 2)
	assert.Equal(t, table1, table2)
	assert.Equal(t, top1, top2)
}

func TestFrequencyTableHelpers(t *testing.T) {
	table := FrequencyTable{{"aa", 3}, {"bb", 2}, {"cc", 1}}

	assert.Equal(t, []string{"aa", "bb", "cc"}, table.Words())
	assert.Equal(t, []int{3, 2, 1}, table.Counts())
	assert.Equal(t, 6, table.Total())
	assert.Equal(t, FrequencyTable{{"aa", 3}}, table.Top(1))
	assert.Len(t, table.Top(10), 3)
	assert.Empty(t, table.Top(-1))

	top := table.Top(2)
	top[0].Count = 99
	require.Equal(t, 3, table[0].Count, "Top must copy")
}
