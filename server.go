package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const historyLimit = 50

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>文本词频分析</title>
	<style>
		body { font-family: sans-serif; margin: 2rem; }
		.warning { color: #a66b00; }
		.error { color: #b00020; }
		table { border-collapse: collapse; }
		td, th { border: 1px solid #ccc; padding: 0.25rem 0.75rem; }
	</style>
</head>
<body>
	<h2>文本词频分析</h2>
	<form action="/analyze" method="get" style="margin-bottom:1rem">
		<input type="text" name="url" size="60" placeholder="例如：https://www.example.com/article" value="{{.URL}}">
		<label>过滤词频低于以下的词汇
			<input type="range" name="min_freq" min="1" max="10" value="{{.MinFreq}}" oninput="this.nextElementSibling.value = this.value">
			<output>{{.MinFreq}}</output>
		</label>
		<select name="chart">
			{{range .Kinds}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
			{{end}}
		</select>
		<label><input type="checkbox" name="refresh" value="1"> 重新采集</label>
		<button type="submit">分析</button>
		<a href="/history">历史</a>
	</form>

	{{range .Diagnostics}}<p class="{{.Severity}}">{{.Message}}</p>
	{{end}}

	{{with .Result}}
	<p>文本采集成功！共 {{.Chars}} 字{{if .Cached}}（使用已采集文本）{{end}}</p>
	<details><summary>查看原始文本</summary><p>{{.Preview}}</p></details>

	<h3>词频排名前20的词汇</h3>
	<table>
		<tr><th>词汇</th><th>词频</th></tr>
		{{range .Top}}<tr><td>{{.Word}}</td><td>{{.Count}}</td></tr>
		{{end}}
	</table>

	{{if not .Empty}}
	<h3>{{$.ChartLabel}}展示</h3>
	<iframe src="{{$.ChartURL}}" width="100%" height="560" frameborder="0"></iframe>
	{{end}}
	{{end}}
</body>
</html>`))

var historyTemplate = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>历史记录</title></head>
<body>
	<h2>历史记录</h2>
	<p><a href="/analyze">返回</a></p>
	{{if .}}
	<table>
		<tr><th>URL</th><th>采集时间</th><th>高频词</th></tr>
		{{range .}}<tr>
			<td><a href="{{.Link}}">{{.URL}}</a></td>
			<td>{{.FetchedAt.Format "2006-01-02 15:04:05"}}</td>
			<td>{{range .Top}}{{.Word}}({{.Count}}) {{end}}</td>
		</tr>
		{{end}}
	</table>
	{{else}}
	<p>No documents yet.</p>
	{{end}}
</body>
</html>`))

type Server struct {
	pipeline *Pipeline
	store    DocumentStore
	metrics  *Metrics
	logger   *zap.Logger

	// AllowedOrigins for cross-origin calls to /api; empty allows any origin.
	AllowedOrigins []string
}

func NewServer(pipeline *Pipeline, store DocumentStore, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{pipeline: pipeline, store: store, metrics: metrics, logger: logger}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/analyze", http.StatusFound)
	})
	r.Get("/analyze", s.handleAnalyze)
	r.Get("/chart", s.handleChart)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.corsHandler())
		r.Get("/analyze", s.handleAPIAnalyze)
	})
	r.Get("/history", s.handleHistory)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}

// parseRequest reads url, min_freq, chart and refresh from the query string.
// Missing values take their defaults: min_freq 1, chart wordcloud.
func parseRequest(r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{
		URL:     strings.TrimSpace(q.Get("url")),
		MinFreq: minFreqLow,
		Chart:   WordCloud,
	}

	if v := q.Get("min_freq"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: min_freq %q is not a number", ErrInvalidRequest, v)
		}
		req.MinFreq = n
	}
	if v := q.Get("chart"); v != "" {
		kind, err := ParseChartKind(v)
		if err != nil {
			return req, err
		}
		req.Chart = kind
	}
	switch strings.ToLower(q.Get("refresh")) {
	case "1", "true", "on", "yes":
		req.Refresh = true
	}
	return req, nil
}

type kindOption struct {
	Name     string
	Label    string
	Selected bool
}

type pageData struct {
	URL         string
	MinFreq     int
	Kinds       []kindOption
	Diagnostics []Diagnostic
	Result      *Result
	ChartLabel  string
	ChartURL    string
}

func newPageData(req Request) pageData {
	data := pageData{URL: req.URL, MinFreq: req.MinFreq, ChartLabel: req.Chart.Label()}
	for _, k := range ChartKinds() {
		data.Kinds = append(data.Kinds, kindOption{Name: k.String(), Label: k.Label(), Selected: k == req.Chart})
	}
	return data
}

// chartLink points at /chart for the same document without forcing a re-fetch.
func chartLink(req Request) string {
	v := url.Values{}
	v.Set("url", req.URL)
	v.Set("min_freq", strconv.Itoa(req.MinFreq))
	v.Set("chart", req.Chart.String())
	return "/chart?" + v.Encode()
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	diag := NewDiagnostics(s.logger)
	req, err := parseRequest(r)
	data := newPageData(req)

	status := http.StatusOK
	switch {
	case err != nil:
		diag.Error(InvalidRequest, err.Error())
		status = http.StatusBadRequest
	case req.URL != "":
		res, err := s.pipeline.Run(r.Context(), req, diag)
		if err != nil {
			status = statusFor(err)
		} else {
			data.Result = res
			data.ChartURL = chartLink(req)
		}
	}
	data.Diagnostics = diag.Records()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("rendering page failed", zap.Error(err))
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	diag := NewDiagnostics(s.logger)
	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.pipeline.Run(r.Context(), req, diag)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderChart(w, res.Chart, res.Series); err != nil {
		if errors.Is(err, ErrNoData) {
			fmt.Fprintln(w, "<p>无有效词频数据（所有单字已过滤，且无符合条件的多字词）</p>")
			return
		}
		s.logger.Error("rendering chart failed", zap.Error(err), zap.Stringer("chart", res.Chart))
	}
}

type apiError struct {
	Error       string       `json:"error"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	diag := NewDiagnostics(s.logger)
	req, err := parseRequest(r)
	if err == nil {
		var res *Result
		res, err = s.pipeline.Run(r.Context(), req, diag)
		if err == nil {
			writeJSON(w, http.StatusOK, res)
			return
		}
	} else {
		diag.Error(InvalidRequest, err.Error())
	}
	writeJSON(w, statusFor(err), apiError{Error: err.Error(), Diagnostics: diag.Records()})
}

type historyRow struct {
	URL       string
	Link      string
	FetchedAt time.Time
	Top       FrequencyTable
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.Documents(historyLimit)
	if err != nil {
		s.logger.Error("listing documents failed", zap.Error(err))
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}

	rows := make([]historyRow, 0, len(docs))
	for _, d := range docs {
		top, err := s.store.Frequencies(d.URL, 5)
		if err != nil {
			s.logger.Warn("loading frequencies failed", zap.String("url", d.URL), zap.Error(err))
		}
		rows = append(rows, historyRow{
			URL:       d.URL,
			Link:      "/analyze?" + url.Values{"url": {d.URL}}.Encode(),
			FetchedAt: d.FetchedAt,
			Top:       top,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := historyTemplate.Execute(w, rows); err != nil {
		s.logger.Error("rendering history failed", zap.Error(err))
	}
}

func statusFor(err error) int {
	var fe *FetchError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &fe):
		if fe.Kind == FetchTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
