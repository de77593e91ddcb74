package models

// Payload types sent to the school backend. The `form` tag names the flat
// form field each value is read from; `omitempty` keeps empty and
// unparsable values out of the request body.

// StudentPayload is the flat body of POST /students/ and PUT /students/{id}.
type StudentPayload struct {
	Name   string `json:"name,omitempty" form:"name" validate:"required"`
	Age    *int   `json:"age,omitempty" form:"age"`
	DOB    string `json:"dob,omitempty" form:"dob"`
	Gender string `json:"gender,omitempty" form:"gender"`

	Religion string `json:"religion,omitempty" form:"religion"`
	Caste    string `json:"caste,omitempty" form:"caste"`

	ClassName string `json:"class_name,omitempty" form:"class_name"`
	RollNo    string `json:"roll_no,omitempty" form:"roll_no"`

	BirthPlace      string `json:"birth_place,omitempty" form:"birth_place"`
	HouseName       string `json:"house_name,omitempty" form:"house_name"`
	StreetName      string `json:"street_name,omitempty" form:"street_name"`
	PostOffice      string `json:"post_office,omitempty" form:"post_office"`
	PinCode         string `json:"pin_code,omitempty" form:"pin_code"`
	RevenueDistrict string `json:"revenue_district,omitempty" form:"revenue_district"`
	BlockPanchayat  string `json:"block_panchayat,omitempty" form:"block_panchayat"`
	LocalBody       string `json:"local_body,omitempty" form:"local_body"`
	Taluk           string `json:"taluk,omitempty" form:"taluk"`

	PhoneNumber string `json:"phone_number,omitempty" form:"phone_number"`
	Email       string `json:"email,omitempty" form:"email"`

	FatherName           string `json:"father_name,omitempty" form:"father_name"`
	FatherEducation      string `json:"father_education,omitempty" form:"father_education"`
	FatherOccupation     string `json:"father_occupation,omitempty" form:"father_occupation"`
	MotherName           string `json:"mother_name,omitempty" form:"mother_name"`
	MotherEducation      string `json:"mother_education,omitempty" form:"mother_education"`
	MotherOccupation     string `json:"mother_occupation,omitempty" form:"mother_occupation"`
	GuardianName         string `json:"guardian_name,omitempty" form:"guardian_name"`
	GuardianRelationship string `json:"guardian_relationship,omitempty" form:"guardian_relationship"`
	GuardianContact      string `json:"guardian_contact,omitempty" form:"guardian_contact"`

	AcademicYear    string `json:"academic_year,omitempty" form:"academic_year"`
	AdmissionNumber string `json:"admission_number,omitempty" form:"admission_number"`
	AdmissionDate   string `json:"admission_date,omitempty" form:"admission_date"`
	ClassTeacher    string `json:"class_teacher,omitempty" form:"class_teacher"`

	BankName      string `json:"bank_name,omitempty" form:"bank_name"`
	AccountNumber string `json:"account_number,omitempty" form:"account_number"`
	Branch        string `json:"branch,omitempty" form:"branch"`
	IFSCCode      string `json:"ifsc_code,omitempty" form:"ifsc_code"`

	DisabilityType       string   `json:"disability_type,omitempty" form:"disability_type"`
	DisabilityPercentage *float64 `json:"disability_percentage,omitempty" form:"disability_percentage"`
	MedicalConditions    string   `json:"medical_conditions,omitempty" form:"medical_conditions"`
	Allergies            string   `json:"allergies,omitempty" form:"allergies"`
}

// CaseRecordPayload is the body of PUT /students/{id}/case-record.
type CaseRecordPayload struct {
	Identification *Identification `json:"identification,omitempty"`
	Demographic    *Demographic    `json:"demographic,omitempty"`
	Medical        *Medical        `json:"medical,omitempty"`
	Family         *Family         `json:"family,omitempty"`
}

type Identification struct {
	Religion             string   `json:"religion,omitempty" form:"religion"`
	Caste                string   `json:"caste,omitempty" form:"caste"`
	DisabilityType       string   `json:"disability_type,omitempty" form:"disability_type"`
	DisabilityPercentage *float64 `json:"disability_percentage,omitempty" form:"disability_percentage"`
	AadharNumber         string   `json:"aadhar_number,omitempty" form:"aadhar_number"`
	BloodGroup           string   `json:"blood_group,omitempty" form:"blood_group"`
	Category             string   `json:"category,omitempty" form:"category"`
}

type Demographic struct {
	FatherName           string `json:"father_name,omitempty" form:"father_name"`
	FatherEducation      string `json:"father_education,omitempty" form:"father_education"`
	FatherOccupation     string `json:"father_occupation,omitempty" form:"father_occupation"`
	MotherName           string `json:"mother_name,omitempty" form:"mother_name"`
	MotherEducation      string `json:"mother_education,omitempty" form:"mother_education"`
	MotherOccupation     string `json:"mother_occupation,omitempty" form:"mother_occupation"`
	GuardianName         string `json:"guardian_name,omitempty" form:"guardian_name"`
	GuardianRelationship string `json:"guardian_relationship,omitempty" form:"guardian_relationship"`
	GuardianContact      string `json:"guardian_contact,omitempty" form:"guardian_contact"`
}

type Medical struct {
	MedicalConditions string      `json:"medical_conditions,omitempty" form:"medical_conditions"`
	Allergies         string      `json:"allergies,omitempty" form:"allergies"`
	Drugs             []DrugEntry `json:"drugs,omitempty"`
}

type Family struct {
	Household []HouseholdEntry `json:"household,omitempty"`
}

// DrugEntry is a drug row as sent to the backend. SlNo is the display
// sequence at submission time, not an identifier.
type DrugEntry struct {
	SlNo int    `json:"sl_no"`
	Name string `json:"name,omitempty" form:"name"`
	Dose string `json:"dose,omitempty" form:"dose"`
}

type HouseholdEntry struct {
	SlNo       int    `json:"sl_no"`
	Name       string `json:"name,omitempty" form:"name"`
	Age        *int   `json:"age,omitempty" form:"age"`
	Education  string `json:"education,omitempty" form:"education"`
	Occupation string `json:"occupation,omitempty" form:"occupation"`
	Health     string `json:"health,omitempty" form:"health"`
	Income     string `json:"income,omitempty" form:"income"`
}

// TeacherPayload is the body of POST /teachers/.
type TeacherPayload struct {
	Name                  string `json:"name,omitempty" form:"name" validate:"required"`
	Address               string `json:"address,omitempty" form:"address"`
	DateOfBirth           string `json:"date_of_birth,omitempty" form:"date_of_birth"`
	Gender                string `json:"gender,omitempty" form:"gender"`
	BloodGroup            string `json:"blood_group,omitempty" form:"blood_group"`
	MobileNumber          string `json:"mobile_number,omitempty" form:"mobile_number"`
	AadharNumber          string `json:"aadhar_number,omitempty" form:"aadhar_number"`
	Religion              string `json:"religion,omitempty" form:"religion"`
	Caste                 string `json:"caste,omitempty" form:"caste"`
	RCINumber             string `json:"rci_number,omitempty" form:"rci_number"`
	RCIRenewalDate        string `json:"rci_renewal_date,omitempty" form:"rci_renewal_date"`
	QualificationsDetails string `json:"qualifications_details,omitempty" form:"qualifications_details"`
	Category              string `json:"category,omitempty" form:"category"`
	Email                 string `json:"email,omitempty" form:"email"`

	ClassAssignments []AssignmentEntry `json:"class_assignments"`
}

type AssignmentEntry struct {
	Class     string   `json:"class"`
	Subject   string   `json:"subject"`
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

// LoginRequest holds the credentials posted to /auth/login.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// TokenResponse is returned by /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ReportRequest is the body of POST /notifications/send-report.
type ReportRequest struct {
	StudentID      string `json:"student_id" form:"student_id" validate:"required"`
	Title          string `json:"title" form:"title" validate:"required"`
	Message        string `json:"message" form:"message" validate:"required"`
	ReportSummary  string `json:"report_summary,omitempty" form:"report_summary"`
	ReportFromDate string `json:"report_from_date,omitempty" form:"report_from_date"`
	ReportToDate   string `json:"report_to_date,omitempty" form:"report_to_date"`
	TherapyType    string `json:"therapy_type,omitempty" form:"therapy_type"`
}
