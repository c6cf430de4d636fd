package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/wizard"
)

var stepTitles = map[int]string{
	wizard.StepProgramDetails:  "Program Details",
	wizard.StepAcademicDetails: "Academic Details",
	wizard.StepPersonalDetails: "Personal Details",
	wizard.StepPreview:         "Preview & Submit",
}

func (p *portal) handleWizard(ctx context.Context) {
	if !p.requireLogin() {
		return
	}

	ctrl := wizard.NewController(p.app, p.logger)
	ctrl.SetNavigateHook(clearScreen)

	if err := ctrl.Load(ctx); err != nil {
		// A failed initial fetch renders nothing but the error.
		color.Red("Could not load your application: %v", err)
		return
	}

	for {
		step := ctrl.CurrentStep()
		color.Cyan("\n--- Step %d of 4: %s ---", step, stepTitles[step])

		var done bool
		switch step {
		case wizard.StepProgramDetails:
			done = p.runProgramStep(ctx, ctrl)
		case wizard.StepAcademicDetails:
			done = p.runAcademicStep(ctx, ctrl)
		case wizard.StepPersonalDetails:
			done = p.runPersonalStep(ctx, ctrl)
		case wizard.StepPreview:
			done = p.runPreviewStep(ctx, ctrl)
		}
		if done {
			return
		}
	}
}

// syncFromStore pushes the latest server-reported stage into the controller.
func (p *portal) syncFromStore(ctrl *wizard.Controller) {
	if app := p.app.Current(); app != nil {
		ctrl.SyncStage(app.RegistrationStage)
	}
}

func (p *portal) runProgramStep(ctx context.Context, ctrl *wizard.Controller) bool {
	form := wizard.NewProgramForm(p.app, p.ref, p.logger)
	if err := form.Load(ctx); err != nil {
		color.Red("Could not load options: %v", err)
		return true
	}

	id := p.chooseOption("Program type", programTypeOptions(p.ref.ProgramTypes()))
	if id == "" {
		return true
	}
	if err := p.ref.SelectProgramType(ctx, id); err != nil {
		color.Red("Could not load institutions: %s", p.ref.DropdownErr())
		return true
	}

	id = p.chooseOption("Institution", institutionOptions(p.ref.Institutions()))
	if id == "" {
		return true
	}
	if err := p.ref.SelectInstitution(ctx, id); err != nil {
		color.Red("Could not load programs: %s", p.ref.DropdownErr())
		return true
	}

	id = p.chooseOption("Program", programOptions(p.ref.Programs()))
	if id == "" {
		return true
	}
	p.ref.SelectProgram(id)

	ok, err := form.Save(ctx)
	if err != nil {
		color.Red("%v", err)
		return false
	}
	if !ok {
		color.Red("Save failed: %s", p.app.Err())
		return false
	}
	color.Green("Program details saved.")
	p.syncFromStore(ctrl)
	return false
}

func (p *portal) runAcademicStep(ctx context.Context, ctrl *wizard.Controller) bool {
	form := wizard.NewAcademicForm(p.app, p.ref, p.logger)
	if err := form.Load(ctx); err != nil {
		color.Red("Could not load the academic form: %v", err)
		return true
	}

	examType := strings.ToUpper(p.prompt("Examination type (WASSCE/SSSCE)", string(form.ExamType)))
	if examType == string(models.ExamSSSCE) {
		form.ExamType = models.ExamSSSCE
	} else {
		form.ExamType = models.ExamWASSCE
	}
	grades := strings.Join(form.GradeOptions(), ", ")

	color.Cyan("\nCore subjects")
	for _, row := range form.Cores {
		fmt.Printf("\n%s\n", row.Subject.Name)
		row.Grade = strings.ToUpper(p.prompt("  Grade ("+grades+")", row.Grade))
		row.IndexNumber = p.prompt("  Index number", row.IndexNumber)
		row.ExamYear = p.prompt("  Exam year", row.ExamYear)
		row.ExamMonth = p.prompt("  Exam month", row.ExamMonth)
	}

	color.Cyan("\nElective subjects")
	for {
		p.renderElectives(form)
		fmt.Println("a. Add elective  e. Edit elective  r. Remove elective  s. Submit step  b. Back")
		switch strings.ToLower(p.readChoice()) {
		case "a":
			row := form.AddElective()
			p.editElective(ctx, form, row)
		case "e":
			if i, ok := p.pickIndex(len(form.Electives)); ok {
				p.editElective(ctx, form, form.Electives[i])
			}
		case "r":
			if i, ok := p.pickIndex(len(form.Electives)); ok {
				if err := form.RemoveElective(i); err != nil {
					color.Red("%v", err)
				}
			}
		case "s":
			ok, err := form.Submit(ctx)
			if err != nil {
				color.Red("%v", err)
				continue
			}
			if !ok {
				color.Red("Save failed: %s", p.app.Err())
				continue
			}
			color.Green("Academic details saved.")
			p.syncFromStore(ctrl)
			return false
		case "b":
			ctrl.Back()
			return false
		default:
			color.Red("Invalid choice.")
		}
	}
}

func (p *portal) editElective(ctx context.Context, form *wizard.AcademicForm, row *wizard.ElectiveRow) {
	if err := p.ref.EnsureWaecCourses(ctx); err != nil {
		color.Red("Could not load courses: %s", p.ref.DropdownErr())
		return
	}

	courseID := p.chooseOption("WAEC course", waecCourseOptions(p.ref.WaecCourses()))
	if courseID != "" && courseID != row.CourseID {
		if err := form.SelectCourse(ctx, row, courseID, false); err != nil {
			color.Red("Could not load subjects: %v", err)
			return
		}
	}
	if len(row.SubjectOptions) > 0 {
		if subjectID := p.chooseOption("Subject", subjectOptions(row.SubjectOptions)); subjectID != "" {
			row.SubjectID = subjectID
		}
	}

	grades := strings.Join(form.GradeOptions(), ", ")
	row.Grade = strings.ToUpper(p.prompt("Grade ("+grades+")", row.Grade))
	row.IndexNumber = p.prompt("Index number", row.IndexNumber)
	row.ExamYear = p.prompt("Exam year", row.ExamYear)
	row.ExamMonth = p.prompt("Exam month", row.ExamMonth)
}

func (p *portal) runPersonalStep(ctx context.Context, ctrl *wizard.Controller) bool {
	form := wizard.NewPersonalForm(p.app, p.client, nil, p.logger)
	form.SetAdvanceHook(ctrl.Forward)
	if err := form.Load(); err != nil {
		color.Red("Could not load personal details: %v", err)
		return true
	}

	identity := form.Identity()
	fmt.Printf("Name: %s %s (from your record)\n", identity.FirstName, identity.LastName)
	fmt.Printf("Email: %s (from your record)\n", identity.Email)

	form.Fields.OtherNames = p.prompt("Other names", form.Fields.OtherNames)
	form.Fields.PhoneNumber = p.prompt("Phone number", form.Fields.PhoneNumber)
	form.Fields.DateOfBirth = p.prompt("Date of birth (YYYY-MM-DD)", form.Fields.DateOfBirth)
	form.Fields.Gender = p.prompt("Gender", form.Fields.Gender)
	form.Fields.GhanaCardNumber = strings.ToUpper(p.prompt("Ghana Card number", form.Fields.GhanaCardNumber))
	form.Fields.Hometown = p.prompt("Hometown", form.Fields.Hometown)
	form.Fields.ResidentialAddr = p.prompt("Residential address", form.Fields.ResidentialAddr)
	form.Fields.PostalAddr = p.prompt("Postal address", form.Fields.PostalAddr)

	if err := p.ref.EnsureRegions(ctx); err == nil {
		if regionID := p.chooseOption("Region", regionOptions(p.ref.Regions())); regionID != "" {
			form.Fields.RegionID = regionID
			if err := p.ref.SelectRegion(ctx, regionID); err == nil {
				if districtID := p.chooseOption("District", districtOptions(p.ref.Districts())); districtID != "" {
					form.Fields.DistrictID = districtID
					p.ref.SelectDistrict(districtID)
				}
			}
		}
	}

	form.Fields.GuardianName = p.prompt("Guardian name", form.Fields.GuardianName)
	form.Fields.GuardianPhone = p.prompt("Guardian phone", form.Fields.GuardianPhone)
	form.Fields.GuardianRelation = p.prompt("Guardian relationship", form.Fields.GuardianRelation)

	for {
		fmt.Printf("Medical conditions: %s\n", strings.Join(form.Fields.MedicalConditions, ", "))
		condition := p.prompt("Toggle condition (none/asthma/epilepsy/diabetes/other, blank to finish)", "")
		if condition == "" {
			break
		}
		form.ToggleMedicalCondition(condition)
	}

	if path := p.prompt("Profile photo file (blank to keep current)", ""); path != "" {
		form.PhotoPath = path
	}

	ok, err := form.Save(ctx)
	if err != nil {
		color.Red("%v", err)
		return false
	}
	if !ok {
		color.Red("Save failed: %s", p.app.Err())
		return false
	}
	color.Green("Personal details saved.")
	p.syncFromStore(ctrl)
	return false
}

func (p *portal) runPreviewStep(ctx context.Context, ctrl *wizard.Controller) bool {
	preview := wizard.NewPreview(p.app, p.client, p.logger)
	p.renderSections(preview.Sections())

	if url, err := preview.PhotoURL(ctx); err == nil && url != "" {
		fmt.Printf("Profile photo: %s\n", url)
	}

	if !preview.CanSubmit() {
		color.Green("This application has been submitted.")
		fmt.Println("1. Exit wizard")
		p.readChoice()
		return true
	}

	fmt.Println("1. Edit program details")
	fmt.Println("2. Edit academic details")
	fmt.Println("3. Edit personal details")
	fmt.Println("4. Submit application")
	fmt.Println("5. Exit wizard")

	choice := p.readChoice()
	switch choice {
	case "1", "2", "3":
		step, _ := strconv.Atoi(choice)
		if err := ctrl.EditStep(step); err != nil {
			color.Red("%v", err)
		}
		return false
	case "4":
		if !p.confirm("Submit your application? This cannot be undone") {
			return false
		}
		ok, err := preview.Submit(ctx)
		if err != nil {
			color.Red("%v", err)
			return false
		}
		if !ok {
			color.Red("Submission failed: %s", p.app.Err())
			return false
		}
		color.Green("Application submitted. Good luck!")
		return true
	default:
		return true
	}
}

func (p *portal) pickIndex(n int) (int, bool) {
	fmt.Printf("Row number (1-%d): ", n)
	i, err := strconv.Atoi(p.readLine())
	if err != nil || i < 1 || i > n {
		color.Red("Invalid row.")
		return 0, false
	}
	return i - 1, true
}
