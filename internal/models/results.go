package models

// ExaminationType selects which grading scheme applies to exam results.
type ExaminationType string

const (
	ExamWASSCE ExaminationType = "WASSCE"
	ExamSSSCE  ExaminationType = "SSSCE"
)

var (
	wassceGrades = []string{"A1", "B2", "B3", "C4", "C5", "C6", "D7", "D8"}
	sssceGrades  = []string{"A", "B", "C", "D", "E", "F"}
)

// GradesFor returns the valid grade set for an examination type.
func GradesFor(t ExaminationType) []string {
	switch t {
	case ExamSSSCE:
		return append([]string(nil), sssceGrades...)
	default:
		return append([]string(nil), wassceGrades...)
	}
}

// CoreResult is a saved exam result for one of the fixed core subjects.
type CoreResult struct {
	ID          string `json:"id,omitempty"`
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName,omitempty"`
	Grade       string `json:"grade"`
	IndexNumber string `json:"indexNumber"`
	ExamYear    string `json:"examYear"`
	ExamMonth   string `json:"examMonth"`
}

// ElectiveResult additionally ties the subject to the WAEC course it was
// taken under. Rows are keyed by subject and course; duplicate detection is
// a server concern.
type ElectiveResult struct {
	ID          string `json:"id,omitempty"`
	CourseID    string `json:"courseId"`
	CourseName  string `json:"courseName,omitempty"`
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName,omitempty"`
	Grade       string `json:"grade"`
	IndexNumber string `json:"indexNumber"`
	ExamYear    string `json:"examYear"`
	ExamMonth   string `json:"examMonth"`
}

// CoreResultInput is the outbound shape for core result rows.
type CoreResultInput struct {
	SubjectID   string `json:"subjectId" validate:"required"`
	Grade       string `json:"grade" validate:"required"`
	IndexNumber string `json:"indexNumber" validate:"required"`
	ExamYear    string `json:"examYear" validate:"required"`
	ExamMonth   string `json:"examMonth" validate:"required"`
}

// ElectiveResultInput is the outbound shape for elective result rows.
type ElectiveResultInput struct {
	CourseID    string `json:"courseId" validate:"required"`
	SubjectID   string `json:"subjectId" validate:"required"`
	Grade       string `json:"grade" validate:"required"`
	IndexNumber string `json:"indexNumber" validate:"required"`
	ExamYear    string `json:"examYear" validate:"required"`
	ExamMonth   string `json:"examMonth" validate:"required"`
}
