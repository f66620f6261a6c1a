package models

// LetterGrade is the A-F classification of a percentage.
type LetterGrade string

const (
	GradeA LetterGrade = "A"
	GradeB LetterGrade = "B"
	GradeC LetterGrade = "C"
	GradeD LetterGrade = "D"
	GradeF LetterGrade = "F"
)

// LetterGrades lists letters from best to worst.
var LetterGrades = []LetterGrade{GradeA, GradeB, GradeC, GradeD, GradeF}

// GradeColor is the presentation tag paired with a letter grade.
type GradeColor string

const (
	ColorGreen  GradeColor = "green"
	ColorBlue   GradeColor = "blue"
	ColorYellow GradeColor = "yellow"
	ColorOrange GradeColor = "orange"
	ColorRed    GradeColor = "red"
)

// Student is a roster entry. The gradebook never owns student data.
type Student struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// ComputedResult is the derived final grade of one student. It is recomputed on every request.
type ComputedResult struct {
	StudentID   string      `json:"student_id"`
	Percentage  int         `json:"percentage"`
	LetterGrade LetterGrade `json:"letter_grade"`
}

// ClassStatistics summarises the graded students of a context.
type ClassStatistics struct {
	Average           int                 `json:"average"`
	Highest           int                 `json:"highest"`
	Lowest            int                 `json:"lowest"`
	TotalCounted      int                 `json:"total_counted"`
	GradeDistribution map[LetterGrade]int `json:"grade_distribution"`
}

// ClassResultRow is one line of the class results table.
type ClassResultRow struct {
	StudentID      string                     `json:"student_id"`
	StudentName    string                     `json:"student_name"`
	Scores         map[AssessmentType]float64 `json:"scores,omitempty"`
	Percentage     int                        `json:"percentage"`
	LetterGrade    LetterGrade                `json:"letter_grade"`
	Color          GradeColor                 `json:"color"`
	HasAssessments bool                       `json:"has_assessments"`
	Rank           *int                       `json:"rank,omitempty"`
}

// Result strips presentation fields from the row.
func (r ClassResultRow) Result() ComputedResult {
	return ComputedResult{StudentID: r.StudentID, Percentage: r.Percentage, LetterGrade: r.LetterGrade}
}

// ClassReport aggregates the results table of a context.
type ClassReport struct {
	ContextID  string              `json:"context_id"`
	Weights    WeightConfiguration `json:"weights"`
	Rows       []ClassResultRow    `json:"rows"`
	Statistics *ClassStatistics    `json:"statistics"`
}
