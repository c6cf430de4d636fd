// Package wizard drives the four-step application flow: Program Details,
// Academic Details, Personal Details, Preview/Submit. The visible step is
// derived from the server-reported registration stage until the applicant
// navigates manually.
package wizard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/store"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

const (
	StepProgramDetails  = 1
	StepAcademicDetails = 2
	StepPersonalDetails = 3
	StepPreview         = 4

	maxStep = StepPreview
)

// StepForStage maps a registration stage to the wizard step that should be
// shown, clamped to the last defined step.
func StepForStage(stage models.RegistrationStage) int {
	var step int
	switch stage {
	case models.StageProgramDetails:
		step = StepProgramDetails
	case models.StageAcademicDetails:
		step = StepAcademicDetails
	case models.StagePersonalDetails:
		step = StepPersonalDetails
	case models.StageCompleted, models.StageDraft, models.StageSubmitted:
		step = StepPreview
	default:
		step = StepProgramDetails
	}
	if step > maxStep {
		step = maxStep
	}
	return step
}

// Controller owns the current step and the manual-navigation flag.
type Controller struct {
	mu      sync.Mutex
	app     *store.Application
	logger  *zap.Logger
	current int
	manual  bool

	// onNavigate fires on every step change. The web portal scrolls the
	// viewport to the top here; the terminal front-end redraws the screen.
	onNavigate func()
}

// NewController constructs a wizard controller bound to the application store.
func NewController(app *store.Application, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{app: app, logger: logger, current: StepProgramDetails}
}

// SetNavigateHook registers the callback fired after every step change.
func (c *Controller) SetNavigateHook(fn func()) {
	c.mu.Lock()
	c.onNavigate = fn
	c.mu.Unlock()
}

// Load fetches the application and derives the initial step. A failed
// fetch leaves the wizard rendering nothing but the error.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.app.Fetch(ctx); err != nil {
		return err
	}
	app := c.app.Current()
	if app == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "no application found for this account")
	}
	c.SyncStage(app.RegistrationStage)
	return nil
}

// SyncStage applies the stage-to-step mapping unless the applicant has
// already navigated manually.
func (c *Controller) SyncStage(stage models.RegistrationStage) {
	c.mu.Lock()
	if c.manual {
		c.mu.Unlock()
		return
	}
	next := StepForStage(stage)
	changed := next != c.current
	c.current = next
	hook := c.onNavigate
	c.mu.Unlock()

	if changed && hook != nil {
		hook()
	}
}

// Back moves one step backwards and marks the flow manually navigated.
func (c *Controller) Back() {
	c.mu.Lock()
	if c.current > StepProgramDetails {
		c.current--
	}
	c.manual = true
	hook := c.onNavigate
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// EditStep jumps straight to a step, as the preview's edit actions do.
func (c *Controller) EditStep(step int) error {
	if step < StepProgramDetails || step > maxStep {
		return appErrors.Clone(appErrors.ErrValidation, "unknown step")
	}
	c.mu.Lock()
	c.current = step
	c.manual = true
	hook := c.onNavigate
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// Forward advances one step without touching the manual flag. Used by the
// personal-details no-op save, which skips the network round trip that
// would otherwise drive the step through SyncStage.
func (c *Controller) Forward() {
	c.mu.Lock()
	if c.current < maxStep {
		c.current++
	}
	hook := c.onNavigate
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// CurrentStep returns the visible step, always within 1..4.
func (c *Controller) CurrentStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ManuallyNavigated reports whether stage sync is suspended.
func (c *Controller) ManuallyNavigated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manual
}
