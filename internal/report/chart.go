// Package report renders solved schedules as standalone HTML charts.
package report

import (
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"blockload-solver/internal/model"
)

// WriteScheduleChart renders the schedule report to an HTML file.
func WriteScheduleChart(path string, in *model.Inputs, primal *model.Primal) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderSchedule(f, in, primal)
}

// RenderSchedule writes a two-chart page: the block-loading trajectory
// (forecast demand, renewables, target curve, served demand) and the
// per-unit dispatch stack.
func RenderSchedule(w io.Writer, in *model.Inputs, primal *model.Primal) error {
	page := components.NewPage()
	page.AddCharts(trajectoryChart(in, primal), dispatchChart(in, primal))
	return page.Render(w)
}

func trajectoryChart(in *model.Inputs, primal *model.Primal) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Block loading trajectory",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "MW",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
	)

	line.SetXAxis(axisLabels(in.Timestamps)).
		AddSeries("Forecast demand", lineData(in.DemandMW)).
		AddSeries("Renewables", lineData(in.RenewablesMW)).
		AddSeries("Target", lineData(in.TargetMW)).
		AddSeries("Served block demand", lineData(primal.ServedMW)).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)
	return line
}

func dispatchChart(in *model.Inputs, primal *model.Primal) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Unit dispatch",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "MW",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
	)

	bar.SetXAxis(axisLabels(in.Timestamps))
	for i, unit := range in.Fleet {
		bar.AddSeries(unit.Name, barData(primal.Dispatch[i]))
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "dispatch"}))
	return bar
}

func axisLabels(timestamps []time.Time) []string {
	labels := make([]string, len(timestamps))
	for i, ts := range timestamps {
		labels[i] = ts.Format("02 Jan 15:04")
	}
	return labels
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}
