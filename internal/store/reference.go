package store

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// Dataset names the dropdown collections the reference store manages.
type Dataset string

const (
	DataProgramTypes Dataset = "programTypes"
	DataInstitutions Dataset = "institutions"
	DataPrograms     Dataset = "programs"
	DataWaecCourses  Dataset = "waecCourses"
	DataCoreSubjects Dataset = "coreSubjects"
	DataRegions      Dataset = "regions"
	DataDistricts    Dataset = "districts"
)

// searchSize is the page size requested from the paged search endpoints.
const searchSize = 200

// Reference caches the dropdown datasets for the lifetime of the process
// and keeps the cascade invariant: clearing a parent selection clears every
// descendant option list and selection.
type Reference struct {
	mu     sync.Mutex
	client *api.Client
	logger *zap.Logger

	programTypes []models.ProgramType
	institutions []models.Institution
	programs     []models.Program
	waecCourses  []models.WaecCourse
	coreSubjects []models.Subject
	regions      []models.Region
	districts    []models.District

	electives map[string][]models.Subject

	selProgramType string
	selInstitution string
	selProgram     string
	selRegion      string
	selDistrict    string

	loading     map[Dataset]bool
	dropdownErr string
}

// NewReference constructs the reference store.
func NewReference(client *api.Client, logger *zap.Logger) *Reference {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reference{
		client:    client,
		logger:    logger,
		electives: map[string][]models.Subject{},
		loading:   map[Dataset]bool{},
	}
}

func searchPath(resource string) string {
	return api.QueryPath("/"+resource+"/search", url.Values{"size": {strconv.Itoa(searchSize)}})
}

// EnsureProgramTypes fetches program types unless already loaded.
func (r *Reference) EnsureProgramTypes(ctx context.Context) error {
	r.mu.Lock()
	if len(r.programTypes) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	var out []models.ProgramType
	err := r.fetch(ctx, DataProgramTypes, func() error {
		return r.client.Post(ctx, searchPath("program-types"), nil, &out)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.programTypes = out
	r.mu.Unlock()
	return nil
}

// SelectProgramType records the selection and reloads institutions.
// Changing program type clears institutions and programs, both options
// and selections.
func (r *Reference) SelectProgramType(ctx context.Context, id string) error {
	r.mu.Lock()
	if r.selProgramType == id && len(r.institutions) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.selProgramType = id
	r.institutions = nil
	r.selInstitution = ""
	r.programs = nil
	r.selProgram = ""
	r.mu.Unlock()

	if id == "" {
		return nil
	}

	var out []models.Institution
	err := r.fetch(ctx, DataInstitutions, func() error {
		return r.client.Get(ctx, "/institutions/by-program-type/"+id, &out)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.institutions = out
	r.mu.Unlock()
	return nil
}

// SelectInstitution records the selection and reloads programs. Changing
// institution clears only the program list and selection.
func (r *Reference) SelectInstitution(ctx context.Context, id string) error {
	r.mu.Lock()
	programTypeID := r.selProgramType
	if r.selInstitution == id && len(r.programs) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.selInstitution = id
	r.programs = nil
	r.selProgram = ""
	r.mu.Unlock()

	if id == "" || programTypeID == "" {
		return nil
	}

	var out []models.Program
	err := r.fetch(ctx, DataPrograms, func() error {
		return r.client.Get(ctx, "/programs/by-program-type/"+programTypeID+"/institution/"+id, &out)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.programs = out
	r.mu.Unlock()
	return nil
}

// SelectProgram records the program selection.
func (r *Reference) SelectProgram(id string) {
	r.mu.Lock()
	r.selProgram = id
	r.mu.Unlock()
}

// EnsureWaecCourses fetches WAEC courses unless already loaded.
func (r *Reference) EnsureWaecCourses(ctx context.Context) error {
	r.mu.Lock()
	if len(r.waecCourses) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	var out []models.WaecCourse
	err := r.fetch(ctx, DataWaecCourses, func() error {
		return r.client.Post(ctx, searchPath("waec-courses"), nil, &out)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.waecCourses = out
	r.mu.Unlock()
	return nil
}

// EnsureCoreSubjects fetches the fixed core subject set unless loaded.
func (r *Reference) EnsureCoreSubjects(ctx context.Context) error {
	r.mu.Lock()
	if len(r.coreSubjects) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	var out []models.Subject
	err := r.fetch(ctx, DataCoreSubjects, func() error {
		return r.client.Post(ctx, searchPath("subjects"), nil, &out)
	})
	if err != nil {
		return err
	}

	core := out[:0]
	for _, s := range out {
		if s.Core {
			core = append(core, s)
		}
	}
	// Servers that pre-filter return no core flag at all.
	if len(core) == 0 {
		core = out
	}

	r.mu.Lock()
	r.coreSubjects = core
	r.mu.Unlock()
	return nil
}

// EnsureRegions fetches regions unless already loaded.
func (r *Reference) EnsureRegions(ctx context.Context) error {
	r.mu.Lock()
	if len(r.regions) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	var out []models.Region
	err := r.fetch(ctx, DataRegions, func() error {
		return r.client.Post(ctx, searchPath("regions"), nil, &out)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.regions = out
	r.mu.Unlock()
	return nil
}

// SelectRegion records the selection and reloads districts, clearing the
// district selection.
func (r *Reference) SelectRegion(ctx context.Context, id string) error {
	r.mu.Lock()
	if r.selRegion == id && len(r.districts) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.selRegion = id
	r.districts = nil
	r.selDistrict = ""
	r.mu.Unlock()

	if id == "" {
		return nil
	}

	var out []models.District
	err := r.fetch(ctx, DataDistricts, func() error {
		values := url.Values{"size": {strconv.Itoa(searchSize)}, "regionId": {id}}
		return r.client.Post(ctx, api.QueryPath("/districts/search", values), nil, &out)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.districts = out
	r.mu.Unlock()
	return nil
}

// SelectDistrict records the district selection.
func (r *Reference) SelectDistrict(id string) {
	r.mu.Lock()
	r.selDistrict = id
	r.mu.Unlock()
}

// ElectivesByCourse returns the valid subjects for a WAEC course, cached
// per course for the session.
func (r *Reference) ElectivesByCourse(ctx context.Context, courseID string) ([]models.Subject, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course required")
	}

	r.mu.Lock()
	if cached, ok := r.electives[courseID]; ok {
		r.mu.Unlock()
		return append([]models.Subject(nil), cached...), nil
	}
	r.mu.Unlock()

	var out []models.Subject
	if err := r.client.Get(ctx, "/subjects/electives-by-course/"+courseID, &out); err != nil {
		r.setDropdownErr(err)
		return nil, err
	}

	r.mu.Lock()
	r.electives[courseID] = out
	r.mu.Unlock()
	return append([]models.Subject(nil), out...), nil
}

// fetch runs one dataset load with its loading flag and the shared error.
func (r *Reference) fetch(ctx context.Context, set Dataset, load func() error) error {
	r.mu.Lock()
	r.loading[set] = true
	r.mu.Unlock()

	err := load()

	r.mu.Lock()
	r.loading[set] = false
	if err == nil {
		r.dropdownErr = ""
	}
	r.mu.Unlock()

	if err != nil {
		r.setDropdownErr(err)
		r.logger.Warn("dropdown fetch failed", zap.String("dataset", string(set)), zap.Error(err))
	}
	return err
}

func (r *Reference) setDropdownErr(err error) {
	r.mu.Lock()
	r.dropdownErr = appErrors.FromError(err).Message
	r.mu.Unlock()
}

// Loading reports whether a dataset fetch is in flight.
func (r *Reference) Loading(set Dataset) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading[set]
}

// DropdownErr returns the shared dropdown error message, empty when healthy.
func (r *Reference) DropdownErr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropdownErr
}

func (r *Reference) ProgramTypes() []models.ProgramType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ProgramType(nil), r.programTypes...)
}

func (r *Reference) Institutions() []models.Institution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Institution(nil), r.institutions...)
}

func (r *Reference) Programs() []models.Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Program(nil), r.programs...)
}

func (r *Reference) WaecCourses() []models.WaecCourse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.WaecCourse(nil), r.waecCourses...)
}

func (r *Reference) CoreSubjects() []models.Subject {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Subject(nil), r.coreSubjects...)
}

func (r *Reference) Regions() []models.Region {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Region(nil), r.regions...)
}

func (r *Reference) Districts() []models.District {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.District(nil), r.districts...)
}

// Selections returns the current cascade selections in parent-to-child
// order: program type, institution, program, region, district.
func (r *Reference) Selections() (programType, institution, program, region, district string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selProgramType, r.selInstitution, r.selProgram, r.selRegion, r.selDistrict
}
