package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
)

// runOnce analyzes a single URL, prints the diagnostics and the top-20 table
// to w and, when out is set, writes the rendered chart there.
func runOnce(ctx context.Context, w io.Writer, p *Pipeline, req Request, out string, startup []Diagnostic) error {
	diag := NewDiagnostics(p.logger)
	res, err := p.Run(ctx, req, diag)

	printDiagnostics(w, append(startup, diag.Records()...))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s (%d chars)\n", successColor("fetched"), res.URL, res.Chars)
	printTable(w, res.Top)

	if out == "" || res.Empty() {
		return nil
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := RenderChart(f, res.Chart, res.Series); err != nil {
		return fmt.Errorf("render %s chart: %w", res.Chart, err)
	}
	fmt.Fprintf(w, "%s %s chart written to %s\n", successColor("saved"), res.Chart.Label(), out)
	return nil
}

func printDiagnostics(w io.Writer, records []Diagnostic) {
	for _, d := range records {
		switch d.Severity {
		case SeverityError:
			fmt.Fprintf(w, "%s %s\n", errorColor("error:"), d.Message)
		case SeverityWarning:
			fmt.Fprintf(w, "%s %s\n", warnColor("warning:"), d.Message)
		default:
			fmt.Fprintf(w, "%s %s\n", infoColor("info:"), d.Message)
		}
	}
}

func printTable(w io.Writer, top FrequencyTable) {
	if len(top) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", infoColor(fmt.Sprintf("%-4s %-20s %s", "#", "词汇", "词频")))
	for i, e := range top {
		fmt.Fprintf(w, "%-4d %-20s %d\n", i+1, e.Word, e.Count)
	}
}
