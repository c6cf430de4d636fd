package wizard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/store"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// CoreRow is one editable result row for a fixed core subject.
type CoreRow struct {
	Subject     models.Subject
	Grade       string
	IndexNumber string
	ExamYear    string
	ExamMonth   string
}

// ElectiveRow is a user-added elective result row. Choosing a WAEC course
// determines which subjects are valid for the row.
type ElectiveRow struct {
	CourseID       string
	SubjectID      string
	SubjectOptions []models.Subject
	Grade          string
	IndexNumber    string
	ExamYear       string
	ExamMonth      string
}

// AcademicForm is the second step: exam type plus two parallel result
// collections, one row per core subject and at least one elective row.
type AcademicForm struct {
	app    *store.Application
	ref    *store.Reference
	logger *zap.Logger

	ExamType  models.ExaminationType
	Cores     []*CoreRow
	Electives []*ElectiveRow
}

// NewAcademicForm constructs the academic-details step.
func NewAcademicForm(app *store.Application, ref *store.Reference, logger *zap.Logger) *AcademicForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicForm{app: app, ref: ref, logger: logger}
}

// Load builds the core rows from the server's core subject set,
// pre-populating any saved results, and restores saved elective rows. The
// pre-fill keeps the previously saved subject selection while the row's
// subject options load. At least one elective row always exists.
func (f *AcademicForm) Load(ctx context.Context) error {
	if err := f.ref.EnsureCoreSubjects(ctx); err != nil {
		return err
	}
	if err := f.ref.EnsureWaecCourses(ctx); err != nil {
		return err
	}

	app := f.app.Current()
	if app == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "no application loaded")
	}

	f.ExamType = app.ExaminationType
	if f.ExamType == "" {
		f.ExamType = models.ExamWASSCE
	}

	saved := map[string]models.CoreResult{}
	for _, r := range app.CoreResults {
		saved[r.SubjectID] = r
	}

	f.Cores = nil
	for _, subject := range f.ref.CoreSubjects() {
		row := &CoreRow{Subject: subject}
		if r, ok := saved[subject.ID]; ok {
			row.Grade = r.Grade
			row.IndexNumber = r.IndexNumber
			row.ExamYear = r.ExamYear
			row.ExamMonth = r.ExamMonth
		}
		f.Cores = append(f.Cores, row)
	}

	f.Electives = nil
	for _, r := range app.ElectiveResults {
		row := &ElectiveRow{
			SubjectID:   r.SubjectID,
			Grade:       r.Grade,
			IndexNumber: r.IndexNumber,
			ExamYear:    r.ExamYear,
			ExamMonth:   r.ExamMonth,
		}
		f.Electives = append(f.Electives, row)
		if err := f.SelectCourse(ctx, row, r.CourseID, true); err != nil {
			return err
		}
	}
	if len(f.Electives) == 0 {
		f.AddElective()
	}
	return nil
}

// AddElective appends an empty elective row.
func (f *AcademicForm) AddElective() *ElectiveRow {
	row := &ElectiveRow{}
	f.Electives = append(f.Electives, row)
	return row
}

// RemoveElective deletes a row; the list never drops below one row.
func (f *AcademicForm) RemoveElective(i int) error {
	if len(f.Electives) <= 1 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one elective subject is required")
	}
	if i < 0 || i >= len(f.Electives) {
		return appErrors.Clone(appErrors.ErrValidation, "no such elective row")
	}
	f.Electives = append(f.Electives[:i], f.Electives[i+1:]...)
	return nil
}

// SelectCourse sets a row's WAEC course and loads the course's valid
// subjects. The chosen subject resets unless this is the initial pre-fill
// from saved data, which preserves it while the options load.
func (f *AcademicForm) SelectCourse(ctx context.Context, row *ElectiveRow, courseID string, initial bool) error {
	row.CourseID = courseID
	if !initial {
		row.SubjectID = ""
	}
	row.SubjectOptions = nil
	if courseID == "" {
		return nil
	}

	subjects, err := f.ref.ElectivesByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	row.SubjectOptions = subjects
	return nil
}

// GradeOptions returns the valid grades for the selected exam type.
func (f *AcademicForm) GradeOptions() []string {
	return models.GradesFor(f.ExamType)
}

// Validate checks every row and aggregates the misses into one error. No
// partial save happens: a single missing field anywhere blocks submission.
func (f *AcademicForm) Validate() error {
	var missing []string

	for _, row := range f.Cores {
		var fields []string
		if row.Grade == "" {
			fields = append(fields, "grade")
		}
		if row.IndexNumber == "" {
			fields = append(fields, "index number")
		}
		if row.ExamYear == "" {
			fields = append(fields, "year")
		}
		if row.ExamMonth == "" {
			fields = append(fields, "month")
		}
		if len(fields) > 0 {
			missing = append(missing, fmt.Sprintf("%s: %s", row.Subject.Name, strings.Join(fields, ", ")))
		}
	}

	for i, row := range f.Electives {
		var fields []string
		if row.CourseID == "" {
			fields = append(fields, "course")
		}
		if row.SubjectID == "" {
			fields = append(fields, "subject")
		}
		if row.Grade == "" {
			fields = append(fields, "grade")
		}
		if row.IndexNumber == "" {
			fields = append(fields, "index number")
		}
		if row.ExamYear == "" {
			fields = append(fields, "year")
		}
		if row.ExamMonth == "" {
			fields = append(fields, "month")
		}
		if len(fields) > 0 {
			missing = append(missing, fmt.Sprintf("elective %d: %s", i+1, strings.Join(fields, ", ")))
		}
	}

	if len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "complete all result fields - "+strings.Join(missing, "; "))
	}
	return nil
}

// Submit validates, and on success patches the examination type, the
// mapped result arrays and the stage to PERSONAL_DETAILS. An invalid form
// never reaches the API.
func (f *AcademicForm) Submit(ctx context.Context) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}

	cores := make([]models.CoreResultInput, 0, len(f.Cores))
	for _, row := range f.Cores {
		cores = append(cores, models.CoreResultInput{
			SubjectID:   row.Subject.ID,
			Grade:       row.Grade,
			IndexNumber: row.IndexNumber,
			ExamYear:    row.ExamYear,
			ExamMonth:   row.ExamMonth,
		})
	}

	electives := make([]models.ElectiveResultInput, 0, len(f.Electives))
	for _, row := range f.Electives {
		electives = append(electives, models.ElectiveResultInput{
			CourseID:    row.CourseID,
			SubjectID:   row.SubjectID,
			Grade:       row.Grade,
			IndexNumber: row.IndexNumber,
			ExamYear:    row.ExamYear,
			ExamMonth:   row.ExamMonth,
		})
	}

	examType := f.ExamType
	stage := models.StagePersonalDetails
	patch := models.ApplicationUpdate{
		ExaminationType:   &examType,
		RegistrationStage: &stage,
		CoreResults:       cores,
		ElectiveResults:   electives,
	}
	return f.app.Update(ctx, patch), nil
}
