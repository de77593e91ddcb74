package view

import "github.com/yigit/schoolportal/internal/app/models"

// Input is one editable form field.
type Input struct {
	Name    string
	Label   string
	Type    string
	Options []string
}

// InputGroup is a titled block of inputs on an editing screen.
type InputGroup struct {
	ID     string
	Title  string
	Inputs []Input
}

// FilledInput is an Input with its current value.
type FilledInput struct {
	Input
	Value string
}

// FilledGroup is an InputGroup with current values.
type FilledGroup struct {
	ID     string
	Title  string
	Inputs []FilledInput
}

func text(name, label string) Input { return Input{Name: name, Label: label, Type: "text"} }
func number(name, label string) Input { return Input{Name: name, Label: label, Type: "number"} }
func date(name, label string) Input  { return Input{Name: name, Label: label, Type: "date"} }
func area(name, label string) Input  { return Input{Name: name, Label: label, Type: "textarea"} }

func choice(name, label string, options ...string) Input {
	return Input{Name: name, Label: label, Type: "select", Options: options}
}

var genders = []string{"Male", "Female", "Other"}

var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// StudentForm is the student details editing screen.
var StudentForm = []InputGroup{
	{ID: "personal", Title: "Personal Information", Inputs: []Input{
		text("name", "Full Name"),
		number("age", "Age"),
		date("dob", "Date of Birth"),
		choice("gender", "Gender", genders...),
		text("class_name", "Class"),
		text("roll_no", "Roll Number"),
	}},
	{ID: "address", Title: "Address Information", Inputs: []Input{
		text("birth_place", "Birth Place"),
		text("house_name", "House Name"),
		text("street_name", "Street Name"),
		text("post_office", "Post Office"),
		text("pin_code", "Pin Code"),
		text("revenue_district", "Revenue District"),
		text("block_panchayat", "Block Panchayat"),
		text("local_body", "Local Body"),
		text("taluk", "Taluk"),
	}},
	{ID: "contact", Title: "Contact Information", Inputs: []Input{
		text("phone_number", "Phone Number"),
		{Name: "email", Label: "Email", Type: "email"},
	}},
	{ID: "family", Title: "Family Information", Inputs: []Input{
		text("father_name", "Father's Name"),
		text("father_education", "Father's Education"),
		text("father_occupation", "Father's Occupation"),
		text("mother_name", "Mother's Name"),
		text("mother_education", "Mother's Education"),
		text("mother_occupation", "Mother's Occupation"),
		text("guardian_name", "Guardian's Name"),
		text("guardian_relationship", "Guardian's Relationship"),
		text("guardian_contact", "Guardian's Contact"),
	}},
	{ID: "academic", Title: "Academic Information", Inputs: []Input{
		text("academic_year", "Academic Year"),
		text("admission_number", "Admission Number"),
		date("admission_date", "Admission Date"),
		text("class_teacher", "Class Teacher"),
	}},
	{ID: "bank", Title: "Bank Details", Inputs: []Input{
		text("bank_name", "Bank Name"),
		text("account_number", "Account Number"),
		text("branch", "Branch"),
		text("ifsc_code", "IFSC Code"),
	}},
	{ID: "disability", Title: "Disability & Medical", Inputs: []Input{
		text("disability_type", "Disability Type"),
		number("disability_percentage", "Disability Percentage"),
		area("medical_conditions", "Medical Conditions"),
		area("allergies", "Allergies"),
	}},
}

// CaseRecordForm is the case record editing screen. Fields shared with
// StudentForm edit the same value.
var CaseRecordForm = []InputGroup{
	{ID: "identification", Title: "Identification Data", Inputs: []Input{
		text("religion", "Religion"),
		text("caste", "Caste"),
		text("category", "Category"),
		text("aadhar_number", "Aadhar Number"),
		choice("blood_group", "Blood Group", bloodGroups...),
		text("disability_type", "Disability Type"),
		number("disability_percentage", "Disability Percentage"),
	}},
	{ID: "demographic", Title: "Demographic Data", Inputs: []Input{
		text("father_name", "Father's Name"),
		text("father_education", "Father's Education"),
		text("father_occupation", "Father's Occupation"),
		text("mother_name", "Mother's Name"),
		text("mother_education", "Mother's Education"),
		text("mother_occupation", "Mother's Occupation"),
		text("guardian_name", "Guardian's Name"),
		text("guardian_relationship", "Guardian's Relationship"),
		text("guardian_contact", "Guardian's Contact"),
	}},
	{ID: "medical", Title: "Medical History", Inputs: []Input{
		area("medical_conditions", "Medical Conditions"),
		area("allergies", "Allergies"),
	}},
}

// TeacherForm is the teacher creation screen.
var TeacherForm = []InputGroup{
	{ID: "personal", Title: "Personal Information", Inputs: []Input{
		text("name", "Full Name"),
		area("address", "Address"),
		date("date_of_birth", "Date of Birth"),
		choice("gender", "Gender", genders...),
		choice("blood_group", "Blood Group", bloodGroups...),
		text("religion", "Religion"),
		text("caste", "Caste"),
		text("category", "Category"),
	}},
	{ID: "contact", Title: "Contact & Identity", Inputs: []Input{
		text("mobile_number", "Mobile Number"),
		{Name: "email", Label: "Email", Type: "email"},
		text("aadhar_number", "Aadhar Number"),
	}},
	{ID: "qualifications", Title: "Qualifications", Inputs: []Input{
		text("rci_number", "RCI Number"),
		date("rci_renewal_date", "RCI Renewal Date"),
		area("qualifications_details", "Qualifications Details"),
	}},
}

// ReportForm is the staff report screen.
var ReportForm = []InputGroup{
	{ID: "report", Title: "Send Report", Inputs: []Input{
		text("student_id", "Student ID"),
		text("title", "Title"),
		area("message", "Message"),
		choice("therapy_type", "Therapy Type", "Speech Therapy", "Occupational Therapy", "Physiotherapy", "Behavioural Therapy", "Special Education"),
		area("report_summary", "Report Summary"),
		date("report_from_date", "From"),
		date("report_to_date", "To"),
	}},
}

// Fill pairs every input with its current value in form.
func Fill(groups []InputGroup, form models.FormState) []FilledGroup {
	out := make([]FilledGroup, 0, len(groups))
	for _, g := range groups {
		fg := FilledGroup{ID: g.ID, Title: g.Title, Inputs: make([]FilledInput, 0, len(g.Inputs))}
		for _, in := range g.Inputs {
			fg.Inputs = append(fg.Inputs, FilledInput{Input: in, Value: form.Get(in.Name)})
		}
		out = append(out, fg)
	}
	return out
}

// InputNames lists the distinct input names of groups.
func InputNames(groups ...[]InputGroup) []string {
	seen := make(map[string]bool)
	var names []string
	for _, gs := range groups {
		for _, g := range gs {
			for _, in := range g.Inputs {
				if !seen[in.Name] {
					seen[in.Name] = true
					names = append(names, in.Name)
				}
			}
		}
	}
	return names
}
