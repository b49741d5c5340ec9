package main

import (
	"fmt"
	"strings"
)

type ChartKind int

const (
	WordCloud ChartKind = iota
	Bar
	Line
	Pie
	Radar
	Scatter
	Funnel
)

// radarAxes is how many of the most frequent words a radar chart shows.
const radarAxes = 6

type chartInfo struct {
	name  string
	label string
	title string
}

var chartKinds = map[ChartKind]chartInfo{
	WordCloud: {name: "wordcloud", label: "词云", title: "词频词云"},
	Bar:       {name: "bar", label: "柱状图", title: "词频柱状图"},
	Line:      {name: "line", label: "折线图", title: "词频折线图"},
	Pie:       {name: "pie", label: "饼图", title: "词频占比饼图"},
	Radar:     {name: "radar", label: "雷达图", title: "词频雷达图"},
	Scatter:   {name: "scatter", label: "散点图", title: "词频散点图"},
	Funnel:    {name: "funnel", label: "漏斗图", title: "词频漏斗图"},
}

// ChartKinds lists every kind in selector order.
func ChartKinds() []ChartKind {
	return []ChartKind{WordCloud, Bar, Line, Pie, Radar, Scatter, Funnel}
}

func (k ChartKind) String() string {
	if info, ok := chartKinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("ChartKind(%d)", int(k))
}

// Label is the display name used in the selector.
func (k ChartKind) Label() string { return chartKinds[k].label }

// Title is the heading drawn on the chart.
func (k ChartKind) Title() string { return chartKinds[k].title }

// ParseChartKind accepts the English name or the display label.
func ParseChartKind(s string) (ChartKind, error) {
	s = strings.TrimSpace(s)
	for _, k := range ChartKinds() {
		info := chartKinds[k]
		if strings.EqualFold(s, info.name) || s == info.label {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown chart kind %q", ErrInvalidRequest, s)
}

func (k ChartKind) MarshalText() ([]byte, error) {
	if _, ok := chartKinds[k]; !ok {
		return nil, fmt.Errorf("unknown chart kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ChartKind) UnmarshalText(b []byte) error {
	parsed, err := ParseChartKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ChartSeries is the data handed to a renderer: labels and values of equal
// length, plus the scale maximum for charts with bounded axes.
type ChartSeries struct {
	Labels  []string `json:"labels"`
	Values  []int    `json:"values"`
	AxisMax int      `json:"axis_max"`
}

func (s ChartSeries) Len() int    { return len(s.Labels) }
func (s ChartSeries) Empty() bool { return len(s.Labels) == 0 }

type seriesBuilder func(view FrequencyTable) ChartSeries

var seriesBuilders = map[ChartKind]seriesBuilder{
	WordCloud: passThroughSeries,
	Bar:       passThroughSeries,
	Line:      passThroughSeries,
	Pie:       passThroughSeries,
	Radar:     radarSeries,
	Scatter:   passThroughSeries,
	// the view is already frequency-descending, which is what a funnel needs
	Funnel: passThroughSeries,
}

// ToSeries maps the top-K view to the series for one chart kind. Each call
// allocates new slices. An empty view gives an empty series.
func ToSeries(view FrequencyTable, kind ChartKind) ChartSeries {
	build, ok := seriesBuilders[kind]
	if !ok || len(view) == 0 {
		return ChartSeries{}
	}
	return build(view)
}

func passThroughSeries(view FrequencyTable) ChartSeries {
	return newSeries(view)
}

// radarSeries keeps the six most frequent words; every axis shares the
// largest of their counts as its maximum.
func radarSeries(view FrequencyTable) ChartSeries {
	return newSeries(view.Top(radarAxes))
}

func newSeries(view FrequencyTable) ChartSeries {
	s := ChartSeries{
		Labels: view.Words(),
		Values: view.Counts(),
	}
	for _, v := range s.Values {
		if v > s.AxisMax {
			s.AxisMax = v
		}
	}
	return s
}
