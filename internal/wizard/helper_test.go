package wizard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/store"
	"github.com/hti-gh/applicant-portal/pkg/config"
)

// fakeAdmissions simulates the slice of the admissions API the wizard
// touches: the application record, its applicant, the reference datasets
// and the signed-URL file protocol.
type fakeAdmissions struct {
	srv *httptest.Server

	mu       sync.Mutex
	app      models.Application
	requests []string
	uploaded []byte
}

func newFakeAdmissions(t *testing.T, app models.Application) *fakeAdmissions {
	t.Helper()
	f := &fakeAdmissions{app: app}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAdmissions) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api/v1.0")
	switch {
	case r.Method == http.MethodGet && path == "/applications":
		f.mu.Lock()
		app := f.app
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(app)

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/applications/"):
		var patch models.ApplicationUpdate
		_ = json.NewDecoder(r.Body).Decode(&patch)
		f.applyUpdate(patch)

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/applicants/"):
		var patch models.ApplicantUpdate
		_ = json.NewDecoder(r.Body).Decode(&patch)
		f.applyApplicantUpdate(patch)

	case path == "/program-types/search":
		writeJSON(w, []models.ProgramType{{ID: "pt-1", Name: "Nursing"}})
	case strings.HasPrefix(path, "/institutions/by-program-type/"):
		writeJSON(w, []models.Institution{{ID: "inst-1", Name: "Korle Bu NTC"}})
	case strings.HasPrefix(path, "/programs/by-program-type/"):
		writeJSON(w, []models.Program{{ID: "prog-1", Name: "Registered General Nursing"}})
	case path == "/waec-courses/search":
		writeJSON(w, []models.WaecCourse{{ID: "course-1", Name: "General Science"}})
	case path == "/subjects/search":
		writeJSON(w, []models.Subject{
			{ID: "subj-eng", Name: "English Language", Core: true},
			{ID: "subj-math", Name: "Core Mathematics", Core: true},
		})
	case strings.HasPrefix(path, "/subjects/electives-by-course/"):
		writeJSON(w, []models.Subject{{ID: "subj-phy", Name: "Physics"}, {ID: "subj-chem", Name: "Chemistry"}})
	case path == "/regions/search":
		writeJSON(w, []models.Region{{ID: "reg-1", Name: "Greater Accra"}})
	case path == "/districts/search":
		writeJSON(w, []models.District{{ID: "dist-1", Name: "Accra Metro"}})

	case path == "/files/upload":
		writeJSON(w, map[string]string{"id": "file-7", "signedUrl": f.srv.URL + "/bucket/upload"})
	case r.URL.Path == "/bucket/upload":
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.uploaded = data
		f.mu.Unlock()
	case strings.HasPrefix(path, "/files/download/"):
		writeJSON(w, map[string]string{"signedUrl": "https://cdn.example.com/photo"})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAdmissions) applyUpdate(patch models.ApplicationUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if patch.ProgramTypeID != nil {
		f.app.ProgramTypeID = *patch.ProgramTypeID
	}
	if patch.InstitutionID != nil {
		f.app.InstitutionID = *patch.InstitutionID
	}
	if patch.ProgramID != nil {
		f.app.ProgramID = *patch.ProgramID
	}
	if patch.ExaminationType != nil {
		f.app.ExaminationType = *patch.ExaminationType
	}
	if patch.RegistrationStage != nil {
		f.app.RegistrationStage = *patch.RegistrationStage
	}
	if patch.SubmittedAt != nil {
		f.app.SubmittedAt = patch.SubmittedAt
	}
	if patch.CoreResults != nil {
		f.app.CoreResults = nil
		for _, in := range patch.CoreResults {
			f.app.CoreResults = append(f.app.CoreResults, models.CoreResult{
				SubjectID:   in.SubjectID,
				Grade:       in.Grade,
				IndexNumber: in.IndexNumber,
				ExamYear:    in.ExamYear,
				ExamMonth:   in.ExamMonth,
			})
		}
	}
	if patch.ElectiveResults != nil {
		f.app.ElectiveResults = nil
		for _, in := range patch.ElectiveResults {
			f.app.ElectiveResults = append(f.app.ElectiveResults, models.ElectiveResult{
				CourseID:    in.CourseID,
				SubjectID:   in.SubjectID,
				Grade:       in.Grade,
				IndexNumber: in.IndexNumber,
				ExamYear:    in.ExamYear,
				ExamMonth:   in.ExamMonth,
			})
		}
	}
}

func (f *fakeAdmissions) applyApplicantUpdate(patch models.ApplicantUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := &f.app.Applicant
	a.OtherNames = patch.OtherNames
	a.PhoneNumber = patch.PhoneNumber
	a.DateOfBirth = patch.DateOfBirth
	a.Gender = patch.Gender
	a.GhanaCardNumber = patch.GhanaCardNumber
	a.Hometown = patch.Hometown
	a.ResidentialAddr = patch.ResidentialAddr
	a.PostalAddr = patch.PostalAddr
	a.RegionID = patch.RegionID
	a.DistrictID = patch.DistrictID
	a.GuardianName = patch.GuardianName
	a.GuardianPhone = patch.GuardianPhone
	a.GuardianRelation = patch.GuardianRelation
	a.MedicalConditions = patch.MedicalConditions
	a.PhotoID = patch.PhotoID
}

func (f *fakeAdmissions) stage() models.RegistrationStage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.app.RegistrationStage
}

// countRequests counts logged requests whose "METHOD path" line contains
// the given fragment.
func (f *fakeAdmissions) countRequests(fragment string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.requests {
		if strings.Contains(req, fragment) {
			n++
		}
	}
	return n
}

func (f *fakeAdmissions) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// harness wires the stores the wizard steps depend on against the fake.
type harness struct {
	fake   *fakeAdmissions
	client *api.Client
	app    *store.Application
	ref    *store.Reference
}

func newHarness(t *testing.T, record models.Application) *harness {
	t.Helper()
	fake := newFakeAdmissions(t, record)
	client := api.New(config.APIConfig{BaseURL: fake.srv.URL, Prefix: "/api/v1.0"}, nil, models.NewValidator(), nil)
	return &harness{
		fake:   fake,
		client: client,
		app:    store.NewApplication(client, models.NewValidator(), nil),
		ref:    store.NewReference(client, nil),
	}
}
