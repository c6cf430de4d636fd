package models

// RegistrationStage is the server-reported progress marker for an
// application. The server owns stage transitions; the client only maps
// stages to wizard steps and guards against regressing a later stage.
type RegistrationStage string

const (
	StageProgramDetails  RegistrationStage = "PROGRAM_DETAILS"
	StageAcademicDetails RegistrationStage = "ACADEMIC_DETAILS"
	StagePersonalDetails RegistrationStage = "PERSONAL_DETAILS"
	StageDraft           RegistrationStage = "DRAFT"
	StageCompleted       RegistrationStage = "COMPLETED"
	StageSubmitted       RegistrationStage = "SUBMITTED"
)

// stageOrder defines the forward ordering of stages. Unknown stages order
// as zero, before every defined stage.
var stageOrder = map[RegistrationStage]int{
	StageProgramDetails:  1,
	StageAcademicDetails: 2,
	StagePersonalDetails: 3,
	StageDraft:           4,
	StageCompleted:       5,
	StageSubmitted:       6,
}

// Order returns the stage's position in the forward progression.
func (s RegistrationStage) Order() int {
	return stageOrder[s]
}

// Before reports whether s is strictly earlier than other.
func (s RegistrationStage) Before(other RegistrationStage) bool {
	return s.Order() < other.Order()
}
