package models

import "time"

// Application is the single in-progress admission application owned by the
// logged-in applicant. Created server-side at account setup, mutated through
// the wizard, immutable once SUBMITTED.
type Application struct {
	ID                string            `json:"id"`
	ProgramTypeID     string            `json:"programTypeId,omitempty"`
	ProgramTypeName   string            `json:"programTypeName,omitempty"`
	InstitutionID     string            `json:"institutionId,omitempty"`
	InstitutionName   string            `json:"institutionName,omitempty"`
	ProgramID         string            `json:"programId,omitempty"`
	ProgramName       string            `json:"programName,omitempty"`
	ExaminationType   ExaminationType   `json:"examinationType,omitempty"`
	RegistrationStage RegistrationStage `json:"registrationStage,omitempty"`
	SubmittedAt       *time.Time        `json:"submittedAt,omitempty"`
	Applicant         Applicant         `json:"applicant"`
	CoreResults       []CoreResult      `json:"coreResults,omitempty"`
	ElectiveResults   []ElectiveResult  `json:"electiveResults,omitempty"`
	CreatedAt         time.Time         `json:"createdAt,omitempty"`
	UpdatedAt         time.Time         `json:"updatedAt,omitempty"`
}

// Submitted reports whether the application has reached its terminal stage.
func (a *Application) Submitted() bool {
	return a != nil && a.RegistrationStage == StageSubmitted
}

// ApplicationUpdate is a partial patch for PUT /applications/{id}. Nil
// fields are omitted so the server only touches what the step changed.
type ApplicationUpdate struct {
	ProgramTypeID     *string               `json:"programTypeId,omitempty"`
	InstitutionID     *string               `json:"institutionId,omitempty"`
	ProgramID         *string               `json:"programId,omitempty"`
	ExaminationType   *ExaminationType      `json:"examinationType,omitempty"`
	RegistrationStage *RegistrationStage    `json:"registrationStage,omitempty"`
	SubmittedAt       *time.Time            `json:"submittedAt,omitempty"`
	CoreResults       []CoreResultInput     `json:"coreResults,omitempty"`
	ElectiveResults   []ElectiveResultInput `json:"electiveResults,omitempty"`
}

// StagePatch builds a patch that only moves the registration stage.
func StagePatch(stage RegistrationStage) ApplicationUpdate {
	return ApplicationUpdate{RegistrationStage: &stage}
}
