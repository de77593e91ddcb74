// Package assembler turns flat form state and row tables into the request
// bodies the school backend expects. Nothing here performs I/O and no input
// is modified; every call builds a fresh payload.
package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/formbind"
)

var validate = validator.New()

// Student builds the flat student payload. Empty fields and numbers that do
// not parse are left out. A missing name is a validation error.
func Student(form models.FormState) (*models.StudentPayload, error) {
	payload := &models.StudentPayload{}
	if err := formbind.Bind(payload, form); err != nil {
		return nil, fmt.Errorf("binding student form: %w", err)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, validationError(err)
	}
	return payload, nil
}

// CaseRecord builds the nested case record. Groups with no values and rows
// the user left blank are omitted.
func CaseRecord(
	form models.FormState,
	household models.RowList[models.HouseholdMember],
	drugs models.RowList[models.Drug],
) (*models.CaseRecordPayload, error) {
	payload := &models.CaseRecordPayload{}
	if err := formbind.Bind(payload, form); err != nil {
		return nil, fmt.Errorf("binding case record form: %w", err)
	}

	if entries := drugEntries(drugs); len(entries) > 0 {
		if payload.Medical == nil {
			payload.Medical = &models.Medical{}
		}
		payload.Medical.Drugs = entries
	}

	if entries := householdEntries(household); len(entries) > 0 {
		payload.Family = &models.Family{Household: entries}
	}

	return payload, nil
}

// drugEntries numbers the rows by their position in the full list, so the
// sl_no sent matches what the user saw even when blank rows are skipped.
func drugEntries(rows models.RowList[models.Drug]) []models.DrugEntry {
	var out []models.DrugEntry
	for i, r := range rows {
		if r.IsBlank() {
			continue
		}
		out = append(out, models.DrugEntry{
			SlNo: models.Seq(i),
			Name: strings.TrimSpace(r.Name),
			Dose: strings.TrimSpace(r.Dose),
		})
	}
	return out
}

func householdEntries(rows models.RowList[models.HouseholdMember]) []models.HouseholdEntry {
	var out []models.HouseholdEntry
	for i, r := range rows {
		if r.IsBlank() {
			continue
		}
		out = append(out, models.HouseholdEntry{
			SlNo:       models.Seq(i),
			Name:       strings.TrimSpace(r.Name),
			Age:        parseInt(r.Age),
			Education:  strings.TrimSpace(r.Education),
			Occupation: strings.TrimSpace(r.Occupation),
			Health:     strings.TrimSpace(r.Health),
			Income:     strings.TrimSpace(r.Income),
		})
	}
	return out
}

func parseInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

// DroppedAssignment describes a class assignment left out of a teacher
// payload because it was incomplete.
type DroppedAssignment struct {
	Seq     int
	Missing []string
}

func (d DroppedAssignment) String() string {
	return fmt.Sprintf("class assignment %d is missing %s", d.Seq, strings.Join(d.Missing, ", "))
}

// Warning is the sentence shown to the user for d.
func (d DroppedAssignment) Warning() string {
	missing := strings.Join(d.Missing, ", ")
	if n := len(d.Missing); n > 1 {
		missing = strings.Join(d.Missing[:n-1], ", ") + " and " + d.Missing[n-1]
	}
	return fmt.Sprintf("Class %d was not saved: missing %s.", d.Seq, missing)
}

// Teacher builds the teacher payload. Incomplete class assignments are not
// sent; blank rows are skipped silently and partially filled ones are
// returned so the caller can tell the user.
func Teacher(
	form models.FormState,
	assignments models.RowList[models.ClassAssignment],
) (*models.TeacherPayload, []DroppedAssignment, error) {
	payload := &models.TeacherPayload{}
	if err := formbind.Bind(payload, form); err != nil {
		return nil, nil, fmt.Errorf("binding teacher form: %w", err)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, nil, validationError(err)
	}

	payload.ClassAssignments = []models.AssignmentEntry{}
	var dropped []DroppedAssignment
	for i, a := range assignments {
		if a.Complete() {
			payload.ClassAssignments = append(payload.ClassAssignments, models.AssignmentEntry{
				Class:     strings.TrimSpace(a.Class),
				Subject:   strings.TrimSpace(a.Subject),
				Days:      append([]string(nil), a.Days...),
				StartTime: a.StartTime,
				EndTime:   a.EndTime,
			})
			continue
		}
		if !a.IsBlank() {
			dropped = append(dropped, DroppedAssignment{Seq: models.Seq(i), Missing: missingParts(a)})
		}
	}

	return payload, dropped, nil
}

func missingParts(a models.ClassAssignment) []string {
	var missing []string
	if strings.TrimSpace(a.Class) == "" {
		missing = append(missing, "class")
	}
	if strings.TrimSpace(a.Subject) == "" {
		missing = append(missing, "subject")
	}
	if len(a.Days) == 0 {
		missing = append(missing, "days")
	}
	if strings.TrimSpace(a.StartTime) == "" {
		missing = append(missing, "start time")
	}
	if strings.TrimSpace(a.EndTime) == "" {
		missing = append(missing, "end time")
	}
	return missing
}

// Report validates a staff report before it is sent.
func Report(form models.FormState) (*models.ReportRequest, error) {
	req := &models.ReportRequest{}
	if err := formbind.Bind(req, form); err != nil {
		return nil, fmt.Errorf("binding report form: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return req, nil
}

// Login validates the login form before any request is made.
func Login(form models.FormState) (*models.LoginRequest, error) {
	req := &models.LoginRequest{}
	if err := formbind.Bind(req, form); err != nil {
		return nil, fmt.Errorf("binding login form: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError(apperrors.MsgLoginFieldsMissing)
	}
	return req, nil
}

// validationError turns validator output into one user-facing message.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError(err.Error())
	}
	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		lines = append(lines, formatFieldError(fe))
	}
	return apperrors.NewValidationError(strings.Join(lines, "\n"))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " validation failed: " + fe.Tag()
	}
}
