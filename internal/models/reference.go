package models

// Reference data: read-only lookup sets fetched on demand and cached only
// for the lifetime of the process, never persisted.

type ProgramType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Institution struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ProgramTypeID string `json:"programTypeId,omitempty"`
}

type Program struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	InstitutionID string `json:"institutionId,omitempty"`
}

// WaecCourse is a WAEC programme of study grouping elective subjects.
type WaecCourse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Core bool   `json:"core,omitempty"`
}

type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type District struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RegionID string `json:"regionId,omitempty"`
}
