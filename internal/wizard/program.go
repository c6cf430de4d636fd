package wizard

import (
	"context"

	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/store"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// ProgramForm is the first step: program type, institution and program,
// each dropdown cascading from its parent.
type ProgramForm struct {
	app    *store.Application
	ref    *store.Reference
	logger *zap.Logger
}

// NewProgramForm constructs the program-details step.
func NewProgramForm(app *store.Application, ref *store.Reference, logger *zap.Logger) *ProgramForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramForm{app: app, ref: ref, logger: logger}
}

// Load primes the program-type options and replays any saved selections so
// a returning applicant sees their previous choices.
func (f *ProgramForm) Load(ctx context.Context) error {
	if err := f.ref.EnsureProgramTypes(ctx); err != nil {
		return err
	}

	app := f.app.Current()
	if app == nil {
		return nil
	}
	if app.ProgramTypeID != "" {
		if err := f.ref.SelectProgramType(ctx, app.ProgramTypeID); err != nil {
			return err
		}
	}
	if app.InstitutionID != "" {
		if err := f.ref.SelectInstitution(ctx, app.InstitutionID); err != nil {
			return err
		}
	}
	if app.ProgramID != "" {
		f.ref.SelectProgram(app.ProgramID)
	}
	return nil
}

// Save persists the selections and moves the stage to ACADEMIC_DETAILS.
// Returns false when validation or the update fails; the store keeps the
// error detail.
func (f *ProgramForm) Save(ctx context.Context) (bool, error) {
	programType, institution, program, _, _ := f.ref.Selections()
	if programType == "" || institution == "" || program == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "select a program type, institution and program to continue")
	}

	stage := models.StageAcademicDetails
	patch := models.ApplicationUpdate{
		ProgramTypeID:     &programType,
		InstitutionID:     &institution,
		ProgramID:         &program,
		RegistrationStage: &stage,
	}
	return f.app.Update(ctx, patch), nil
}
