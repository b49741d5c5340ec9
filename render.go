package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const seriesName = "词频"

// Renderer is anything that can write itself as an HTML chart page.
type Renderer interface {
	Render(w io.Writer) error
}

type chartFactory func(kind ChartKind, s ChartSeries) Renderer

var chartFactories = map[ChartKind]chartFactory{
	WordCloud: wordCloudChart,
	Bar:       barChart,
	Line:      lineChart,
	Pie:       pieChart,
	Radar:     radarChart,
	Scatter:   scatterChart,
	Funnel:    funnelChart,
}

// RenderChart writes the chart for kind to w. An empty series is ErrNoData
// and nothing is written.
func RenderChart(w io.Writer, kind ChartKind, s ChartSeries) error {
	if s.Empty() {
		return ErrNoData
	}
	build, ok := chartFactories[kind]
	if !ok {
		return fmt.Errorf("%w: unknown chart kind %d", ErrInvalidRequest, int(kind))
	}
	return build(kind, s).Render(w)
}

func globalOpts(kind ChartKind) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: kind.Title(), Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: kind.Title()}),
	}
}

func wordCloudChart(kind ChartKind, s ChartSeries) Renderer {
	data := make([]opts.WordCloudData, s.Len())
	for i := range s.Labels {
		data[i] = opts.WordCloudData{Name: s.Labels[i], Value: s.Values[i]}
	}
	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(globalOpts(kind)...)
	wc.AddSeries("", data).SetSeriesOptions(
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{SizeRange: []float32{20, 100}}),
	)
	return wc
}

func barChart(kind ChartKind, s ChartSeries) Renderer {
	data := make([]opts.BarData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.BarData{Value: v}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(kind),
		charts.WithXAxisOpts(opts.XAxis{Name: seriesName}),
		charts.WithYAxisOpts(opts.YAxis{Name: "词汇"}),
	)...)
	bar.SetXAxis(s.Labels).AddSeries(seriesName, data)
	bar.XYReversal()
	return bar
}

func lineChart(kind ChartKind, s ChartSeries) Renderer {
	data := make([]opts.LineData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.LineData{Value: v}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(kind)...)
	line.SetXAxis(s.Labels).AddSeries(seriesName, data,
		charts.WithMarkPointNameTypeItemOpts(opts.MarkPointNameTypeItem{Name: "最大值", Type: "max"}),
	)
	return line
}

func pieChart(kind ChartKind, s ChartSeries) Renderer {
	data := make([]opts.PieData, s.Len())
	for i := range s.Labels {
		data[i] = opts.PieData{Name: s.Labels[i], Value: s.Values[i]}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(kind)...)
	pie.AddSeries("", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func radarChart(kind ChartKind, s ChartSeries) Renderer {
	indicators := make([]*opts.Indicator, s.Len())
	values := make([]float32, s.Len())
	for i := range s.Labels {
		indicators[i] = &opts.Indicator{Name: s.Labels[i], Max: float32(s.AxisMax)}
		values[i] = float32(s.Values[i])
	}
	radar := charts.NewRadar()
	radar.SetGlobalOptions(append(globalOpts(kind),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)...)
	radar.AddSeries(seriesName, []opts.RadarData{{Value: values}})
	return radar
}

func scatterChart(kind ChartKind, s ChartSeries) Renderer {
	data := make([]opts.ScatterData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.ScatterData{Value: v}
	}
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(globalOpts(kind),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: -45}}),
	)...)
	scatter.SetXAxis(s.Labels).AddSeries(seriesName, data)
	return scatter
}

func funnelChart(kind ChartKind, s ChartSeries) Renderer {
	data := make([]opts.FunnelData, s.Len())
	for i := range s.Labels {
		data[i] = opts.FunnelData{Name: s.Labels[i], Value: s.Values[i]}
	}
	funnel := charts.NewFunnel()
	funnel.SetGlobalOptions(globalOpts(kind)...)
	funnel.AddSeries(seriesName, data)
	return funnel
}
