package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/wizard"
)

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}

// option is an id/label pair rendered as a numbered table row.
type option struct {
	id    string
	label string
}

// chooseOption renders the options and reads a selection. Blank input
// returns the empty id, which callers treat as "go back".
func (p *portal) chooseOption(label string, options []option) string {
	if len(options) == 0 {
		color.Yellow("No %s options available.", label)
		return ""
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", label})
	for i, opt := range options {
		table.Append([]string{strconv.Itoa(i + 1), opt.label})
	}
	table.Render()

	fmt.Printf("Select %s (blank to go back): ", label)
	raw := p.readLine()
	if raw == "" {
		return ""
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 1 || i > len(options) {
		color.Red("Invalid selection.")
		return ""
	}
	return options[i-1].id
}

func (p *portal) renderSections(sections []wizard.Section) {
	for _, section := range sections {
		color.Cyan("\n%s", section.Title)
		table := tablewriter.NewWriter(os.Stdout)
		for _, row := range section.Rows {
			table.Append([]string{row[0], row[1]})
		}
		table.Render()
	}
}

func (p *portal) renderElectives(form *wizard.AcademicForm) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Course", "Subject", "Grade", "Index", "Year", "Month"})
	for i, row := range form.Electives {
		table.Append([]string{
			strconv.Itoa(i + 1),
			nameForCourse(p.ref.WaecCourses(), row.CourseID),
			nameForSubject(row.SubjectOptions, row.SubjectID),
			row.Grade,
			row.IndexNumber,
			row.ExamYear,
			row.ExamMonth,
		})
	}
	table.Render()
}

func nameForCourse(courses []models.WaecCourse, id string) string {
	for _, c := range courses {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func nameForSubject(subjects []models.Subject, id string) string {
	for _, s := range subjects {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}

func programTypeOptions(items []models.ProgramType) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}

func institutionOptions(items []models.Institution) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}

func programOptions(items []models.Program) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}

func waecCourseOptions(items []models.WaecCourse) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}

func subjectOptions(items []models.Subject) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}

func regionOptions(items []models.Region) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}

func districtOptions(items []models.District) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{id: it.ID, label: it.Name})
	}
	return out
}
