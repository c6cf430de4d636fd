package wizard

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/store"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// Section is one accordion block of the read-only summary. EditStep points
// back into the wizard; zero means the section has no edit action.
type Section struct {
	Title    string
	EditStep int
	Rows     [][2]string
}

// Preview renders the full application read-only and owns final submission.
type Preview struct {
	app    *store.Application
	client *api.Client
	logger *zap.Logger

	// photoURL caches the signed display URL for the session.
	photoURL string
}

// NewPreview constructs the preview/submit step.
func NewPreview(app *store.Application, client *api.Client, logger *zap.Logger) *Preview {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preview{app: app, client: client, logger: logger}
}

// Sections builds the summary blocks from the loaded application.
func (p *Preview) Sections() []Section {
	app := p.app.Current()
	if app == nil {
		return nil
	}

	a := app.Applicant

	applicationRows := [][2]string{
		{"Application ID", app.ID},
		{"Stage", string(app.RegistrationStage)},
	}
	if app.SubmittedAt != nil {
		applicationRows = append(applicationRows, [2]string{"Submitted", app.SubmittedAt.Format(time.RFC1123)})
	}

	academicRows := [][2]string{{"Examination Type", string(app.ExaminationType)}}
	for _, r := range app.CoreResults {
		academicRows = append(academicRows, [2]string{r.SubjectName, r.Grade + " (" + r.ExamYear + " " + r.ExamMonth + ")"})
	}
	for _, r := range app.ElectiveResults {
		label := r.SubjectName
		if r.CourseName != "" {
			label = r.CourseName + " / " + r.SubjectName
		}
		academicRows = append(academicRows, [2]string{label, r.Grade + " (" + r.ExamYear + " " + r.ExamMonth + ")"})
	}

	return []Section{
		{Title: "Application", Rows: applicationRows},
		{
			Title:    "Program",
			EditStep: StepProgramDetails,
			Rows: [][2]string{
				{"Program Type", app.ProgramTypeName},
				{"Institution", app.InstitutionName},
				{"Program", app.ProgramName},
			},
		},
		{Title: "Academic Details", EditStep: StepAcademicDetails, Rows: academicRows},
		{
			Title:    "Personal Details",
			EditStep: StepPersonalDetails,
			Rows: [][2]string{
				{"Name", strings.TrimSpace(a.FirstName + " " + a.OtherNames + " " + a.LastName)},
				{"Date of Birth", a.DateOfBirth},
				{"Gender", a.Gender},
				{"Ghana Card", a.GhanaCardNumber},
				{"Medical Conditions", strings.Join(a.MedicalConditions, ", ")},
			},
		},
		{
			Title:    "Contact",
			EditStep: StepPersonalDetails,
			Rows: [][2]string{
				{"Email", a.Email},
				{"Phone", a.PhoneNumber},
				{"Residential Address", a.ResidentialAddr},
				{"Postal Address", a.PostalAddr},
				{"Hometown", a.Hometown},
				{"Guardian", a.GuardianName + " (" + a.GuardianRelation + ")"},
				{"Guardian Phone", a.GuardianPhone},
			},
		},
	}
}

// CanSubmit reports whether final submission is still available. Once the
// stage reads SUBMITTED the action stays disabled for good.
func (p *Preview) CanSubmit() bool {
	app := p.app.Current()
	return app != nil && !app.Submitted()
}

// Submit transitions the application to SUBMITTED with a submission
// timestamp. Double submission through the UI is rejected here; the server
// enforces it independently.
func (p *Preview) Submit(ctx context.Context) (bool, error) {
	if !p.CanSubmit() {
		return false, appErrors.Clone(appErrors.ErrSubmitted, "")
	}

	now := time.Now().UTC()
	stage := models.StageSubmitted
	patch := models.ApplicationUpdate{RegistrationStage: &stage, SubmittedAt: &now}
	return p.app.Update(ctx, patch), nil
}

// PhotoURL resolves the stored photo id into a signed display URL, fetched
// once and cached for the session.
func (p *Preview) PhotoURL(ctx context.Context) (string, error) {
	if p.photoURL != "" {
		return p.photoURL, nil
	}

	app := p.app.Current()
	if app == nil || app.Applicant.PhotoID == "" {
		return "", nil
	}

	url, err := p.client.RequestDownload(ctx, app.Applicant.PhotoID)
	if err != nil {
		return "", err
	}
	p.photoURL = url
	return url, nil
}
