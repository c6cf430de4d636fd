package models

// MedicalConditionNone is the exclusive "no conditions" marker. Selecting it
// clears every other condition and an emptied set collapses back to it.
const MedicalConditionNone = "none"

// Applicant holds the personal record nested under an Application.
// First name, last name and email are authoritative on the server and are
// never resubmitted by the client.
type Applicant struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	OtherNames        string   `json:"otherNames,omitempty"`
	Email             string   `json:"email"`
	PhoneNumber       string   `json:"phoneNumber,omitempty"`
	DateOfBirth       string   `json:"dateOfBirth,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	GhanaCardNumber   string   `json:"ghanaCardNumber,omitempty"`
	Hometown          string   `json:"hometown,omitempty"`
	ResidentialAddr   string   `json:"residentialAddress,omitempty"`
	PostalAddr        string   `json:"postalAddress,omitempty"`
	RegionID          string   `json:"regionId,omitempty"`
	DistrictID        string   `json:"districtId,omitempty"`
	GuardianName      string   `json:"guardianName,omitempty"`
	GuardianPhone     string   `json:"guardianPhoneNumber,omitempty"`
	GuardianRelation  string   `json:"guardianRelationship,omitempty"`
	MedicalConditions []string `json:"medicalConditions,omitempty"`
	PhotoID           string   `json:"photoId,omitempty"`
	SerialNumber      string   `json:"serialNumber,omitempty"`
}

// ApplicantUpdate is the payload for PUT /applicants/{id}. It deliberately
// omits the server-authoritative identity fields.
type ApplicantUpdate struct {
	OtherNames        string   `json:"otherNames,omitempty"`
	PhoneNumber       string   `json:"phoneNumber,omitempty" validate:"omitempty,min=9"`
	DateOfBirth       string   `json:"dateOfBirth,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	GhanaCardNumber   string   `json:"ghanaCardNumber,omitempty" validate:"omitempty,ghcard"`
	Hometown          string   `json:"hometown,omitempty"`
	ResidentialAddr   string   `json:"residentialAddress,omitempty"`
	PostalAddr        string   `json:"postalAddress,omitempty"`
	RegionID          string   `json:"regionId,omitempty"`
	DistrictID        string   `json:"districtId,omitempty"`
	GuardianName      string   `json:"guardianName,omitempty"`
	GuardianPhone     string   `json:"guardianPhoneNumber,omitempty"`
	GuardianRelation  string   `json:"guardianRelationship,omitempty"`
	MedicalConditions []string `json:"medicalConditions,omitempty"`
	PhotoID           string   `json:"photoId,omitempty"`
}
