package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/export"
)

// ExportFormat names a supported export encoding.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type classReporter interface {
	ClassReport(ctx context.Context, contextID string) *models.ClassReport
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportMetrics interface {
	RecordExport(format string)
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders the class results table of a context.
type ExportService struct {
	reports classReporter
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    csvRenderer
	metrics exportMetrics
	title   string
	logger  *zap.Logger
}

// NewExportService wires the renderers. metrics may be nil.
func NewExportService(reports classReporter, csv csvRenderer, pdf pdfRenderer, xlsx csvRenderer, metrics exportMetrics, title string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if title == "" {
		title = "Class Results"
	}
	return &ExportService{reports: reports, csv: csv, pdf: pdf, xlsx: xlsx, metrics: metrics, title: title, logger: logger}
}

// Export renders the class report of contextID in the requested format.
func (s *ExportService) Export(ctx context.Context, contextID string, format ExportFormat) (*ExportFile, error) {
	format = ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = ExportFormatCSV
	}
	report := s.reports.ClassReport(ctx, contextID)
	dataset := BuildResultsDataset(report)
	base := fmt.Sprintf("results_%s", sanitizeFilename(contextID))

	var (
		content     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		content, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		content, err = s.pdf.Render(dataset, fmt.Sprintf("%s - %s", s.title, contextID))
		contentType = "application/pdf"
	case ExportFormatXLSX:
		content, err = s.xlsx.Render(dataset)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("context_id", contextID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	if s.metrics != nil {
		s.metrics.RecordExport(string(format))
	}
	return &ExportFile{Filename: base + "." + string(format), ContentType: contentType, Content: content}, nil
}

// BuildResultsDataset flattens a class report into export rows. Missing scores stay blank
// and ungraded students show "-" instead of a grade.
func BuildResultsDataset(report *models.ClassReport) export.Dataset {
	headers := []string{"Student ID", "Student Name"}
	for _, kind := range models.AssessmentTypes {
		headers = append(headers, kind.Label())
	}
	headers = append(headers, "Percentage", "Grade", "Rank")

	data := export.Dataset{Headers: headers}
	if report == nil {
		return data
	}
	for _, row := range report.Rows {
		values := map[string]string{
			"Student ID":   row.StudentID,
			"Student Name": row.StudentName,
			"Percentage":   "-",
			"Grade":        "-",
			"Rank":         "-",
		}
		for _, kind := range models.AssessmentTypes {
			if score, ok := row.Scores[kind]; ok {
				values[kind.Label()] = formatScore(score)
			}
		}
		if row.HasAssessments {
			values["Percentage"] = strconv.Itoa(row.Percentage)
			values["Grade"] = string(row.LetterGrade)
		}
		if row.Rank != nil {
			values["Rank"] = strconv.Itoa(*row.Rank)
		}
		data.Rows = append(data.Rows, values)
	}

	weights := make([]string, 0, len(models.AssessmentTypes))
	for _, kind := range models.AssessmentTypes {
		if weight, ok := report.Weights[kind]; ok {
			weights = append(weights, fmt.Sprintf("%s %s%%", kind.Label(), formatScore(math.Round(weight*10000)/100)))
		}
	}
	data.Summary = append(data.Summary, export.SummaryLine{Label: "Weights", Value: strings.Join(weights, ", ")})
	if stats := report.Statistics; stats != nil {
		distribution := make([]string, 0, len(models.LetterGrades))
		for _, letter := range models.LetterGrades {
			distribution = append(distribution, fmt.Sprintf("%s=%d", letter, stats.GradeDistribution[letter]))
		}
		data.Summary = append(data.Summary,
			export.SummaryLine{Label: "Average", Value: strconv.Itoa(stats.Average)},
			export.SummaryLine{Label: "Highest", Value: strconv.Itoa(stats.Highest)},
			export.SummaryLine{Label: "Lowest", Value: strconv.Itoa(stats.Lowest)},
			export.SummaryLine{Label: "Students counted", Value: strconv.Itoa(stats.TotalCounted)},
			export.SummaryLine{Label: "Distribution", Value: strings.Join(distribution, " ")},
		)
	} else {
		data.Summary = append(data.Summary, export.SummaryLine{Label: "Statistics", Value: "no graded students"})
	}
	return data
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "context"
	}
	return b.String()
}
