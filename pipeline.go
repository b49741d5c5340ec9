package main

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minFreqLow  = 1
	minFreqHigh = 10

	previewRunes = 1000
)

// Request is one URL submission. The same URL with a different MinFreq
// reuses the stored text unless Refresh is set.
type Request struct {
	URL     string    `json:"url" validate:"required"`
	MinFreq int       `json:"min_freq" validate:"gte=1,lte=10"`
	Chart   ChartKind `json:"chart" validate:"chartkind"`
	Refresh bool      `json:"refresh"`
}

type Result struct {
	RunID       string         `json:"run_id"`
	URL         string         `json:"url"`
	MinFreq     int            `json:"min_freq"`
	Chart       ChartKind      `json:"chart"`
	Cached      bool           `json:"cached"`
	Chars       int            `json:"chars"`
	Preview     string         `json:"preview"`
	Top         FrequencyTable `json:"top"`
	Table       FrequencyTable `json:"table"`
	Series      ChartSeries    `json:"series"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
}

// Empty reports that nothing survived filtering and no chart should be drawn.
func (r *Result) Empty() bool { return len(r.Table) == 0 }

// Pipeline runs fetch -> segment -> analyze -> adapt for one request at a
// time per call. The stopword set, segmenter and store are shared between
// calls; tables and diagnostics are not.
type Pipeline struct {
	acquirer  *TextAcquirer
	segmenter Segmenter
	stopwords StopwordSet
	store     DocumentStore
	validate  *validator.Validate
	logger    *zap.Logger
	metrics   *Metrics
	now       func() time.Time
}

func NewPipeline(acquirer *TextAcquirer, segmenter Segmenter, stopwords StopwordSet, store DocumentStore, logger *zap.Logger, metrics *Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if stopwords.Len() == 0 {
		stopwords = DefaultStopwords()
	}
	return &Pipeline{
		acquirer:  acquirer,
		segmenter: segmenter,
		stopwords: stopwords,
		store:     store,
		validate:  newRequestValidator(),
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

func newRequestValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("chartkind", func(fl validator.FieldLevel) bool {
		_, ok := chartKinds[ChartKind(fl.Field().Int())]
		return ok
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Run processes req. A FetchError stops the run with a nil Result; an empty
// table is a normal Result carrying an EmptyResultWarning.
func (p *Pipeline) Run(ctx context.Context, req Request, diag *Diagnostics) (*Result, error) {
	if err := p.validate.Struct(req); err != nil {
		diag.Error(InvalidRequest, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("url", req.URL))

	text, cached, err := p.acquire(ctx, req.URL, req.Refresh, diag, logger)
	if err != nil {
		return nil, err
	}

	ranked := Rank(p.segmenter.Segment(text), p.stopwords)
	if err := p.store.SaveFrequencies(req.URL, ranked); err != nil {
		logger.Warn("saving frequencies failed", zap.Error(err))
	}

	table := ranked.Floor(req.MinFreq)
	top := table.Top(TopK)
	p.metrics.ObserveAnalysis(len(table))

	res := &Result{
		RunID:   runID,
		URL:     req.URL,
		MinFreq: req.MinFreq,
		Chart:   req.Chart,
		Cached:  cached,
		Chars:   utf8.RuneCountInString(text),
		Preview: preview(text, previewRunes),
		Top:     top,
		Table:   table,
		Series:  ToSeries(top, req.Chart),
	}
	if res.Empty() {
		diag.Warn(EmptyResultWarning, fmt.Sprintf(
			"no words left to chart: single characters and stopwords are removed and min_freq is %d", req.MinFreq))
	}
	res.Diagnostics = diag.Records()

	logger.Info("analysis finished",
		zap.Bool("cached", cached),
		zap.Int("min_freq", req.MinFreq),
		zap.Int("distinct_words", len(ranked)),
		zap.Int("table_size", len(table)),
		zap.Stringer("chart", req.Chart))
	return res, nil
}

// acquire returns the stored text for rawURL when present, otherwise fetches
// it and stores it.
func (p *Pipeline) acquire(ctx context.Context, rawURL string, refresh bool, diag *Diagnostics, logger *zap.Logger) (string, bool, error) {
	if !refresh {
		doc, ok, err := p.store.Document(rawURL)
		if err != nil {
			logger.Warn("document lookup failed, fetching again", zap.Error(err))
		} else if ok {
			return doc.Text, true, nil
		}
	}

	text, err := p.acquirer.FetchAndClean(ctx, rawURL, diag)
	if err != nil {
		return "", false, err
	}

	if err := p.store.SaveDocument(Document{URL: rawURL, Text: text, FetchedAt: p.now()}); err != nil {
		logger.Warn("saving document failed", zap.Error(err))
	}
	return text, false, nil
}

func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
