package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsSegmenter(t *testing.T) {
	assert.Equal(t, []string{"数据分析", "人工智能", "go"}, FieldsSegmenter{}.Segment(" 数据分析  人工智能 go "))
	assert.Empty(t, FieldsSegmenter{}.Segment(""))
}

func TestStemmingSegmenter(t *testing.T) {
	seg := StemmingSegmenter{Next: FieldsSegmenter{}}
	got := seg.Segment("running runs 数据 go2 ran")

	require.Len(t, got, 5)
	assert.Equal(t, "run", got[0])
	assert.Equal(t, "run", got[1])
	assert.Equal(t, "数据", got[2])
	assert.Equal(t, "go2", got[3], "mixed tokens are not stemmed")
}

func TestStemmingMergesCounts(t *testing.T) {
	seg := StemmingSegmenter{Next: FieldsSegmenter{}}
	top, _ := Analyze(seg.Segment("running runs run 数据 数据"), DefaultStopwords(), 1)
	assert.Equal(t, FrequencyTable{{"run", 3}, {"数据", 2}}, top)
}

func TestIsASCIIWord(t *testing.T) {
	tests := map[string]bool{
		"Hello": true,
		"abc":   true,
		"":      false,
		"abc1":  false,
		"数据":    false,
		"naïve": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, isASCIIWord(in), in)
	}
}

func TestNewSegmenter(t *testing.T) {
	seg, err := NewSegmenter("fields", "", false)
	require.NoError(t, err)
	assert.IsType(t, FieldsSegmenter{}, seg)

	seg, err = NewSegmenter("fields", "", true)
	require.NoError(t, err)
	assert.IsType(t, StemmingSegmenter{}, seg)

	_, err = NewSegmenter("jieba", "", false)
	assert.Error(t, err)
}

func TestGseSegmenter(t *testing.T) {
	if testing.Short() {
		t.Skip("loading the dictionary is slow")
	}
	seg, err := NewGseSegmenter("")
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
	}{
		{"chinese sentence", "我们正在学习数据分析和人工智能"},
		{"mixed case english", "Go go GO Golang golang"},
		{"mixed scripts", "使用Go语言和Python做NLP分析"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens := seg.Segment(tc.text)
			require.NotEmpty(t, tokens)
			assert.Equal(t, tc.text, strings.Join(tokens, ""), "segments must cover the text in order")
			for _, tok := range tokens {
				assert.Contains(t, tc.text, tok, "token %q is not a substring of the input", tok)
			}
		})
	}
	assert.Empty(t, seg.Segment(""))
}

func TestGseSegmenterKeepsCase(t *testing.T) {
	if testing.Short() {
		t.Skip("loading the dictionary is slow")
	}
	seg, err := NewGseSegmenter("")
	require.NoError(t, err)

	_, table := Analyze(seg.Segment("Go go GO Golang golang"), DefaultStopwords(), 1)
	counts := map[string]int{}
	for _, e := range table {
		counts[e.Word] = e.Count
	}
	assert.Equal(t, 1, counts["Go"])
	assert.Equal(t, 1, counts["go"])
	assert.Equal(t, 1, counts["GO"])
	assert.Equal(t, 1, counts["Golang"])
	assert.Equal(t, 1, counts["golang"])
}
