package wizard

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/store"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// Identity carries the fields sourced from the server record that the form
// renders read-only and never resubmits.
type Identity struct {
	FirstName string
	LastName  string
	Email     string
}

// PersonalForm is the third step: identity, address, contact and guardian
// details plus an optional profile photo.
type PersonalForm struct {
	app      *store.Application
	client   *api.Client
	validate *validator.Validate
	logger   *zap.Logger

	identity Identity
	Fields   models.ApplicantUpdate
	snapshot models.ApplicantUpdate

	// PhotoPath points at a newly chosen photo file; empty means no change.
	PhotoPath string

	// advance fires when a clean save skips the network round trip.
	advance func()
}

// NewPersonalForm constructs the personal-details step.
func NewPersonalForm(app *store.Application, client *api.Client, validate *validator.Validate, logger *zap.Logger) *PersonalForm {
	if validate == nil {
		validate = models.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonalForm{app: app, client: client, validate: validate, logger: logger}
}

// SetAdvanceHook registers the callback used when a no-op save advances
// the step without touching the server.
func (f *PersonalForm) SetAdvanceHook(fn func()) {
	f.advance = fn
}

// Load snapshots the applicant record so Dirty can compare against it.
func (f *PersonalForm) Load() error {
	app := f.app.Current()
	if app == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "no application loaded")
	}

	a := app.Applicant
	f.identity = Identity{FirstName: a.FirstName, LastName: a.LastName, Email: a.Email}
	f.Fields = models.ApplicantUpdate{
		OtherNames:        a.OtherNames,
		PhoneNumber:       a.PhoneNumber,
		DateOfBirth:       a.DateOfBirth,
		Gender:            a.Gender,
		GhanaCardNumber:   a.GhanaCardNumber,
		Hometown:          a.Hometown,
		ResidentialAddr:   a.ResidentialAddr,
		PostalAddr:        a.PostalAddr,
		RegionID:          a.RegionID,
		DistrictID:        a.DistrictID,
		GuardianName:      a.GuardianName,
		GuardianPhone:     a.GuardianPhone,
		GuardianRelation:  a.GuardianRelation,
		MedicalConditions: append([]string(nil), a.MedicalConditions...),
		PhotoID:           a.PhotoID,
	}
	if len(f.Fields.MedicalConditions) == 0 {
		f.Fields.MedicalConditions = []string{models.MedicalConditionNone}
	}
	f.snapshot = f.Fields
	f.snapshot.MedicalConditions = append([]string(nil), f.Fields.MedicalConditions...)
	f.PhotoPath = ""
	return nil
}

// Identity returns the read-only fields for display.
func (f *PersonalForm) Identity() Identity {
	return f.identity
}

// ToggleMedicalCondition flips one condition with the exclusivity rule:
// "none" clears everything else, anything else clears "none", and an
// emptied set collapses back to ["none"].
func (f *PersonalForm) ToggleMedicalCondition(condition string) {
	condition = strings.ToLower(strings.TrimSpace(condition))
	if condition == "" {
		return
	}

	current := f.Fields.MedicalConditions
	has := false
	for _, c := range current {
		if c == condition {
			has = true
			break
		}
	}

	switch {
	case has:
		next := current[:0]
		for _, c := range current {
			if c != condition {
				next = append(next, c)
			}
		}
		current = next
	case condition == models.MedicalConditionNone:
		current = []string{models.MedicalConditionNone}
	default:
		next := make([]string, 0, len(current)+1)
		for _, c := range current {
			if c != models.MedicalConditionNone {
				next = append(next, c)
			}
		}
		current = append(next, condition)
	}

	if len(current) == 0 {
		current = []string{models.MedicalConditionNone}
	}
	f.Fields.MedicalConditions = current
}

// Dirty reports whether any field differs from the loaded snapshot or a
// new photo file was chosen.
func (f *PersonalForm) Dirty() bool {
	return f.PhotoPath != "" || !reflect.DeepEqual(f.Fields, f.snapshot)
}

// Save persists the applicant details. A clean form skips every network
// call and advances immediately. A chosen photo goes through the
// signed-URL protocol first; an upload failure aborts the save without
// advancing and without discarding the typed form data.
func (f *PersonalForm) Save(ctx context.Context) (bool, error) {
	if !f.Dirty() {
		if f.advance != nil {
			f.advance()
		}
		return true, nil
	}

	if err := f.validate.Struct(f.Fields); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "check the highlighted personal details")
	}

	if f.PhotoPath != "" {
		if err := f.uploadPhoto(ctx); err != nil {
			return false, err
		}
	}

	if !f.app.UpdateApplicant(ctx, f.Fields) {
		return false, nil
	}

	f.advanceStage(ctx)

	f.snapshot = f.Fields
	f.snapshot.MedicalConditions = append([]string(nil), f.Fields.MedicalConditions...)
	return true, nil
}

// advanceStage moves the application to DRAFT, but never regresses a stage
// already at or beyond it. Re-saving a SUBMITTED application must not pull
// it back to DRAFT.
func (f *PersonalForm) advanceStage(ctx context.Context) {
	app := f.app.Current()
	if app == nil {
		return
	}
	if !app.RegistrationStage.Before(models.StageDraft) {
		return
	}
	if !f.app.Update(ctx, models.StagePatch(models.StageDraft)) {
		f.logger.Warn("stage advance failed", zap.String("error", f.app.Err()))
	}
}

func (f *PersonalForm) uploadPhoto(ctx context.Context) error {
	data, err := os.ReadFile(f.PhotoPath)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read the photo file")
	}

	name := filepath.Base(f.PhotoPath)
	ticket, err := f.client.RequestUpload(ctx, name)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := f.client.UploadBytes(ctx, ticket.SignedURL, data, contentType); err != nil {
		return err
	}

	// Only a fully uploaded photo is worth recording.
	f.Fields.PhotoID = ticket.ID
	f.PhotoPath = ""
	return nil
}
