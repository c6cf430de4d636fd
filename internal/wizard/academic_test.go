package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hti-gh/applicant-portal/internal/models"
)

func fillRow(row *ElectiveRow) {
	row.Grade = "B2"
	row.IndexNumber = "0123456789"
	row.ExamYear = "2024"
	row.ExamMonth = "June"
}

func loadedAcademicForm(t *testing.T, record models.Application) (*harness, *AcademicForm) {
	t.Helper()
	h := newHarness(t, record)
	require.NoError(t, h.app.Fetch(context.Background()))
	form := NewAcademicForm(h.app, h.ref, nil)
	require.NoError(t, form.Load(context.Background()))
	return h, form
}

func TestAcademicLoadBuildsCoreRowsWithSavedResults(t *testing.T) {
	_, form := loadedAcademicForm(t, models.Application{
		ID:              "app-1",
		ExaminationType: models.ExamWASSCE,
		CoreResults: []models.CoreResult{
			{SubjectID: "subj-eng", Grade: "A1", IndexNumber: "0123456789", ExamYear: "2024", ExamMonth: "June"},
		},
	})

	require.Len(t, form.Cores, 2)
	assert.Equal(t, "A1", form.Cores[0].Grade)
	assert.Empty(t, form.Cores[1].Grade)
	assert.Equal(t, models.ExamWASSCE, form.ExamType)
}

func TestAcademicLoadRestoresElectivesKeepingSubject(t *testing.T) {
	_, form := loadedAcademicForm(t, models.Application{
		ID: "app-1",
		ElectiveResults: []models.ElectiveResult{
			{CourseID: "course-1", SubjectID: "subj-chem", Grade: "B3", IndexNumber: "0123456789", ExamYear: "2023", ExamMonth: "June"},
		},
	})

	require.Len(t, form.Electives, 1)
	row := form.Electives[0]
	assert.Equal(t, "course-1", row.CourseID)
	// The saved subject survives the option reload.
	assert.Equal(t, "subj-chem", row.SubjectID)
	assert.Len(t, row.SubjectOptions, 2)
}

func TestAcademicLoadAlwaysHasOneElectiveRow(t *testing.T) {
	_, form := loadedAcademicForm(t, models.Application{ID: "app-1"})
	assert.Len(t, form.Electives, 1)
}

func TestRemoveElectiveKeepsAtLeastOne(t *testing.T) {
	_, form := loadedAcademicForm(t, models.Application{ID: "app-1"})

	form.AddElective()
	require.Len(t, form.Electives, 2)
	require.NoError(t, form.RemoveElective(1))
	assert.Error(t, form.RemoveElective(0))
	assert.Len(t, form.Electives, 1)
}

func TestSelectCourseResetsSubjectUnlessInitial(t *testing.T) {
	_, form := loadedAcademicForm(t, models.Application{ID: "app-1"})
	row := form.Electives[0]
	ctx := context.Background()

	row.SubjectID = "subj-phy"
	require.NoError(t, form.SelectCourse(ctx, row, "course-1", false))
	assert.Empty(t, row.SubjectID, "changing course invalidates the subject choice")
	assert.Len(t, row.SubjectOptions, 2)

	row.SubjectID = "subj-phy"
	require.NoError(t, form.SelectCourse(ctx, row, "course-1", true))
	assert.Equal(t, "subj-phy", row.SubjectID)
}

func TestGradeOptionsFollowExamType(t *testing.T) {
	_, form := loadedAcademicForm(t, models.Application{ID: "app-1"})

	form.ExamType = models.ExamWASSCE
	assert.Contains(t, form.GradeOptions(), "A1")

	form.ExamType = models.ExamSSSCE
	assert.Contains(t, form.GradeOptions(), "A")
	assert.NotContains(t, form.GradeOptions(), "A1")
}

func TestAcademicSubmitBlockedWhenIncomplete(t *testing.T) {
	h, form := loadedAcademicForm(t, models.Application{ID: "app-1"})

	// One core row filled, the other left empty.
	form.Cores[0].Grade = "A1"
	form.Cores[0].IndexNumber = "0123456789"
	form.Cores[0].ExamYear = "2024"
	form.Cores[0].ExamMonth = "June"

	before := h.fake.countRequests("PUT")
	ok, err := form.Submit(context.Background())
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete all result fields")
	assert.Contains(t, err.Error(), "Core Mathematics")
	assert.Contains(t, err.Error(), "elective 1")
	assert.Equal(t, before, h.fake.countRequests("PUT"), "an invalid form must never reach the API")
}

func TestAcademicSubmitPatchesResultsAndStage(t *testing.T) {
	h, form := loadedAcademicForm(t, models.Application{ID: "app-1", RegistrationStage: models.StageAcademicDetails})

	form.ExamType = models.ExamWASSCE
	for _, row := range form.Cores {
		row.Grade = "B2"
		row.IndexNumber = "0123456789"
		row.ExamYear = "2024"
		row.ExamMonth = "June"
	}
	row := form.Electives[0]
	require.NoError(t, form.SelectCourse(context.Background(), row, "course-1", false))
	row.SubjectID = "subj-phy"
	fillRow(row)

	ok, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, models.StagePersonalDetails, h.fake.stage())
	app := h.app.Current()
	require.NotNil(t, app)
	assert.Equal(t, models.ExamWASSCE, app.ExaminationType)
	require.Len(t, app.CoreResults, 2)
	require.Len(t, app.ElectiveResults, 1)
	assert.Equal(t, "subj-phy", app.ElectiveResults[0].SubjectID)
	assert.Equal(t, "course-1", app.ElectiveResults[0].CourseID)
}
