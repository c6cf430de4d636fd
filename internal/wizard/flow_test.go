package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hti-gh/applicant-portal/internal/models"
)

// TestResumeMidFlow walks the happy path of a returning applicant: the
// server reports ACADEMIC_DETAILS, the wizard opens on step two, the
// academic step saves, and the refreshed stage drives the flow to step
// three.
func TestResumeMidFlow(t *testing.T) {
	h := newHarness(t, models.Application{
		ID:                "app-1",
		RegistrationStage: models.StageAcademicDetails,
		ProgramTypeID:     "pt-1",
		InstitutionID:     "inst-1",
		ProgramID:         "prog-1",
		Applicant:         models.Applicant{ID: "applicant-1"},
	})
	ctx := context.Background()

	ctrl := NewController(h.app, nil)
	require.NoError(t, ctrl.Load(ctx))
	require.Equal(t, StepAcademicDetails, ctrl.CurrentStep())

	form := NewAcademicForm(h.app, h.ref, nil)
	require.NoError(t, form.Load(ctx))
	for _, row := range form.Cores {
		row.Grade = "B2"
		row.IndexNumber = "0123456789"
		row.ExamYear = "2024"
		row.ExamMonth = "June"
	}
	row := form.Electives[0]
	require.NoError(t, form.SelectCourse(ctx, row, "course-1", false))
	row.SubjectID = "subj-phy"
	fillRow(row)

	putsBefore := h.fake.countRequests("PUT /api/v1.0/applications/")
	ok, err := form.Submit(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, putsBefore+1, h.fake.countRequests("PUT /api/v1.0/applications/"), "one patch per step save")

	ctrl.SyncStage(h.app.Current().RegistrationStage)
	assert.Equal(t, StepPersonalDetails, ctrl.CurrentStep())
}

// TestFullFlowToSubmission drives all four steps end to end.
func TestFullFlowToSubmission(t *testing.T) {
	h := newHarness(t, models.Application{
		ID:                "app-1",
		RegistrationStage: models.StageProgramDetails,
		Applicant:         models.Applicant{ID: "applicant-1", FirstName: "Ama", LastName: "Mensah", Email: "ama@example.com"},
	})
	ctx := context.Background()

	ctrl := NewController(h.app, nil)
	require.NoError(t, ctrl.Load(ctx))
	require.Equal(t, StepProgramDetails, ctrl.CurrentStep())

	// Step 1: program details.
	program := NewProgramForm(h.app, h.ref, nil)
	require.NoError(t, program.Load(ctx))
	require.NoError(t, h.ref.SelectProgramType(ctx, "pt-1"))
	require.NoError(t, h.ref.SelectInstitution(ctx, "inst-1"))
	h.ref.SelectProgram("prog-1")
	ok, err := program.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	ctrl.SyncStage(h.app.Current().RegistrationStage)
	require.Equal(t, StepAcademicDetails, ctrl.CurrentStep())

	// Step 2: academic details.
	academic := NewAcademicForm(h.app, h.ref, nil)
	require.NoError(t, academic.Load(ctx))
	for _, row := range academic.Cores {
		row.Grade = "B2"
		row.IndexNumber = "0123456789"
		row.ExamYear = "2024"
		row.ExamMonth = "June"
	}
	row := academic.Electives[0]
	require.NoError(t, academic.SelectCourse(ctx, row, "course-1", false))
	row.SubjectID = "subj-chem"
	fillRow(row)
	ok, err = academic.Submit(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	ctrl.SyncStage(h.app.Current().RegistrationStage)
	require.Equal(t, StepPersonalDetails, ctrl.CurrentStep())

	// Step 3: personal details.
	personal := NewPersonalForm(h.app, h.client, nil, nil)
	personal.SetAdvanceHook(ctrl.Forward)
	require.NoError(t, personal.Load())
	personal.Fields.PhoneNumber = "0244123456"
	personal.Fields.GhanaCardNumber = "GHA-123456789-0"
	ok, err = personal.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	ctrl.SyncStage(h.app.Current().RegistrationStage)
	require.Equal(t, StepPreview, ctrl.CurrentStep())

	// Step 4: preview and submit.
	preview := NewPreview(h.app, h.client, nil)
	require.True(t, preview.CanSubmit())
	ok, err = preview.Submit(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.StageSubmitted, h.fake.stage())
	assert.True(t, h.app.Current().Submitted())
	assert.False(t, preview.CanSubmit())
}
