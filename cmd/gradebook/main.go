package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/internal/sheet"
	"github.com/noah-isme/sma-gradebook/pkg/export"
)

type options struct {
	sheetPath string
	format    string
	out       string
	title     string
	verbose   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.sheetPath, "sheet", "scores.yaml", "Path to the YAML score sheet")
	flag.StringVar(&opts.format, "format", "", "Export format: csv, pdf or xlsx (empty prints the table only)")
	flag.StringVar(&opts.out, "out", "", "Export destination; defaults to results_<context>.<format>")
	flag.StringVar(&opts.title, "title", "Class Results", "PDF export title")
	flag.BoolVar(&opts.verbose, "v", false, "Log sheet loading")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("gradebook: %v", err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	logr := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync() //nolint:errcheck
		logr = l
	}

	s, err := sheet.Load(opts.sheetPath)
	if err != nil {
		return err
	}
	gradebook, err := s.Gradebook(ctx, logr)
	if err != nil {
		return err
	}

	report := gradebook.ClassReport(ctx, s.Context)
	if err := printReport(stdout, report); err != nil {
		return err
	}

	if opts.format == "" {
		return nil
	}
	exports := service.NewExportService(gradebook, export.NewCSVExporter(','), export.NewPDFExporter(), export.NewXLSXExporter(""), nil, opts.title, logr)
	file, err := exports.Export(ctx, s.Context, service.ExportFormat(opts.format))
	if err != nil {
		return err
	}
	dest := opts.out
	if dest == "" {
		dest = file.Filename
	}
	if err := os.WriteFile(dest, file.Content, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Fprintf(stdout, "\nexported %s\n", dest)
	return nil
}

func printReport(w io.Writer, report *models.ClassReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "RANK\tID\tNAME")
	for _, kind := range models.AssessmentTypes {
		fmt.Fprintf(tw, "\t%s", kind.Label())
	}
	fmt.Fprintln(tw, "\tFINAL\tGRADE")

	for _, row := range report.Rows {
		rank := "-"
		if row.Rank != nil {
			rank = strconv.Itoa(*row.Rank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s", rank, row.StudentID, row.StudentName)
		for _, kind := range models.AssessmentTypes {
			if score, ok := row.Scores[kind]; ok {
				fmt.Fprintf(tw, "\t%s", strconv.FormatFloat(score, 'f', -1, 64))
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		if row.HasAssessments {
			fmt.Fprintf(tw, "\t%d%%\t%s\n", row.Percentage, row.LetterGrade)
		} else {
			fmt.Fprint(tw, "\t-\t-\n")
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := report.Statistics
	if stats == nil {
		_, err := fmt.Fprintln(w, "\nno graded students")
		return err
	}
	fmt.Fprintf(w, "\naverage %d%%  highest %d%%  lowest %d%%  counted %d\n", stats.Average, stats.Highest, stats.Lowest, stats.TotalCounted)
	for _, letter := range models.LetterGrades {
		fmt.Fprintf(w, "%s:%d ", letter, stats.GradeDistribution[letter])
	}
	_, err := fmt.Fprintln(w)
	return err
}
