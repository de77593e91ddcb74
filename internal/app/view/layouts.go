package view

// Layout names used in URLs.
const (
	LayoutStudent    = "student"
	LayoutCaseRecord = "case-record"
	LayoutTeacher    = "teacher"
)

// ByName returns a layout by its URL name.
func ByName(name string) (Layout, bool) {
	switch name {
	case LayoutStudent:
		return StudentDetails, true
	case LayoutCaseRecord:
		return CaseRecord, true
	case LayoutTeacher:
		return TeacherDetails, true
	default:
		return Layout{}, false
	}
}

var StudentDetails = Layout{
	Name:  LayoutStudent,
	Title: "Student Details",
	Sections: []Section{
		{
			ID:    "personal",
			Title: "Personal Information",
			Fields: []Field{
				{"Full Name", "name"},
				{"Age", "age"},
				{"Student ID", "student_id"},
				{"Date of Birth", "dob"},
				{"Gender", "gender"},
				{"Religion", "religion"},
				{"Caste", "caste"},
				{"Aadhar Number", "aadhar_number"},
			},
		},
		{
			ID:    "address",
			Title: "Address Information",
			Fields: []Field{
				{"Birth Place", "birth_place"},
				{"House Name", "house_name"},
				{"Street Name", "street_name"},
				{"Post Office", "post_office"},
				{"Pin Code", "pin_code"},
				{"Revenue District", "revenue_district"},
				{"Block Panchayat", "block_panchayat"},
				{"Local Body", "local_body"},
				{"Taluk", "taluk"},
			},
		},
		{
			ID:    "contact",
			Title: "Contact Information",
			Fields: []Field{
				{"Phone Number", "phone_number"},
				{"Email", "email"},
			},
		},
		{
			ID:    "family",
			Title: "Family Information",
			Fields: []Field{
				{"Father's Name", "father_name"},
				{"Father's Education", "father_education"},
				{"Father's Occupation", "father_occupation"},
				{"Mother's Name", "mother_name"},
				{"Mother's Education", "mother_education"},
				{"Mother's Occupation", "mother_occupation"},
				{"Guardian's Name", "guardian_name"},
				{"Guardian's Relationship", "guardian_relationship"},
				{"Guardian's Contact", "guardian_contact"},
			},
		},
		{
			ID:    "academic",
			Title: "Academic Information",
			Fields: []Field{
				{"Class", "class_name"},
				{"Roll Number", "roll_no"},
				{"Admission Number", "admission_number"},
				{"Academic Year", "academic_year"},
				{"Class Teacher", "class_teacher"},
				{"Admission Date", "admission_date"},
			},
		},
		{
			ID:    "bank",
			Title: "Bank Details",
			Fields: []Field{
				{"Bank Name", "bank_name"},
				{"Account Number", "account_number"},
				{"Branch", "branch"},
				{"IFSC Code", "ifsc_code"},
			},
		},
	},
}

var CaseRecord = Layout{
	Name:  LayoutCaseRecord,
	Title: "Case Record",
	Sections: []Section{
		{
			ID:    "identification",
			Title: "Identification Data",
			Fields: []Field{
				{"Name", "name"},
				{"Admission No", "admission_number"},
				{"Date of Birth", "dob"},
				{"Age", "age"},
				{"Sex", "gender"},
				{"Education", "class_name"},
				{"Blood Group", "case_record.identification.blood_group"},
				{"Religion", "case_record.identification.religion"},
				{"Caste", "case_record.identification.caste"},
				{"Category (SC/ST/OBC/OEC)", "case_record.identification.category"},
				{"Aadhar Number", "case_record.identification.aadhar_number"},
				{"Disability Type", "case_record.identification.disability_type"},
				{"Disability Percentage", "case_record.identification.disability_percentage"},
			},
		},
		{
			ID:    "demographic",
			Title: "Demographic Data",
			Fields: []Field{
				{"Father's Name", "case_record.demographic.father_name"},
				{"Father's Education", "case_record.demographic.father_education"},
				{"Father's Occupation", "case_record.demographic.father_occupation"},
				{"Mother's Name", "case_record.demographic.mother_name"},
				{"Mother's Education", "case_record.demographic.mother_education"},
				{"Mother's Occupation", "case_record.demographic.mother_occupation"},
				{"Guardian's Name", "case_record.demographic.guardian_name"},
				{"Guardian's Relationship", "case_record.demographic.guardian_relationship"},
				{"Guardian's Contact", "case_record.demographic.guardian_contact"},
				{"Total Family Income per Month", "case_record.demographic.total_family_income"},
				{"Address & Phone Number", "case_record.demographic.address_and_phone"},
				{"Informant's Name", "case_record.demographic.informant_name"},
				{"Informant's Relationship", "case_record.demographic.informant_relationship"},
				{"Duration of Contact", "case_record.demographic.duration_of_contact"},
				{"Present Complaints", "case_record.demographic.present_complaints"},
				{"Previous Consultation and Treatments", "case_record.demographic.previous_consultation"},
			},
		},
		{
			ID:    "medical",
			Title: "Medical Information",
			Fields: []Field{
				{"Specific Diagnostic", "case_record.medical.specific_diagnostic"},
				{"Medical Conditions", "case_record.medical.medical_conditions"},
				{"On Regular Drugs", "case_record.medical.is_on_regular_drugs"},
				{"Allergies", "case_record.medical.allergies"},
				{"Drug Allergy", "case_record.medical.drug_allergy"},
				{"Food Allergy", "case_record.medical.food_allergy"},
			},
			Tables: []Table{{
				Title: "Drug History",
				Path:  "case_record.medical.drugs",
				Columns: []Field{
					{"Name of drug", "name"},
					{"Dose", "dose"},
				},
				Empty: "No drug history recorded",
			}},
		},
		{
			ID:    "family",
			Title: "Family History",
			Fields: []Field{
				{"Family History of Mental Illness", "case_record.family.mental_illness"},
				{"Family History of Mental Retardation", "case_record.family.mental_retardation"},
				{"Family History of Epilepsy and Others", "case_record.family.epilepsy"},
			},
			Tables: []Table{{
				Title: "Household Composition",
				Path:  "case_record.family.household",
				Columns: []Field{
					{"Name", "name"},
					{"Age", "age"},
					{"Education", "education"},
					{"Occupation", "occupation"},
					{"Health", "health"},
					{"Income", "income"},
				},
				Empty: "No household composition data available",
			}},
		},
		{
			ID:    "birth-history",
			Title: "Birth History",
			Fields: []Field{
				{"Prenatal History", "case_record.birth_history.prenatal"},
				{"Natal and Neonatal", "case_record.birth_history.natal"},
				{"Postnatal History", "case_record.birth_history.postnatal"},
			},
		},
		{
			ID:      "development",
			Title:   "Development History",
			Dynamic: "case_record.development_history",
			Subsections: []Section{
				{ID: "additional-info", Title: "Additional Information", Dynamic: "case_record.additional_info"},
			},
		},
		{
			ID:    "assessment",
			Title: "Special Education Assessment",
			Subsections: []Section{
				{
					ID:    "self-help",
					Title: "Self Help",
					Fields: []Field{
						{"Eating", "case_record.assessment.self_help.food_habits.eating"},
						{"Drinking", "case_record.assessment.self_help.food_habits.drinking"},
						{"Toilet Habits", "case_record.assessment.self_help.toilet_habits"},
						{"Brushing", "case_record.assessment.self_help.brushing"},
						{"Bathing", "case_record.assessment.self_help.bathing"},
						{"Removing and wearing clothes", "case_record.assessment.self_help.dressing.removing_and_wearing"},
						{"Unbuttoning and Buttoning", "case_record.assessment.self_help.dressing.buttoning"},
						{"Wearing shoes/Slippers", "case_record.assessment.self_help.dressing.footwear"},
						{"Grooming", "case_record.assessment.self_help.dressing.grooming"},
					},
				},
				{
					ID:    "motor",
					Title: "Motor",
					Fields: []Field{
						{"Gross Motor", "case_record.assessment.motor.gross_motor"},
						{"Fine Motor", "case_record.assessment.motor.fine_motor"},
					},
				},
				{
					ID:     "sensory",
					Title:  "Sensory",
					Fields: []Field{{"Sensory", "case_record.assessment.sensory"}},
				},
				{
					ID:    "socialization",
					Title: "Socialization",
					Fields: []Field{
						{"Language/Communication", "case_record.assessment.socialization.language_communication"},
						{"Social behaviour", "case_record.assessment.socialization.social_behaviour"},
						{"Mobility in the neighborhood", "case_record.assessment.socialization.mobility"},
					},
				},
				{
					ID:    "cognitive",
					Title: "Cognitive",
					Fields: []Field{
						{"Attention", "case_record.assessment.cognitive.attention"},
						{"Identification of familiar objects", "case_record.assessment.cognitive.identification_of_objects"},
						{"Use of familiar objects", "case_record.assessment.cognitive.use_of_objects"},
						{"Following simple instruction", "case_record.assessment.cognitive.following_instruction"},
						{"Awareness of danger and hazards", "case_record.assessment.cognitive.awareness_of_danger"},
						{"Color", "case_record.assessment.cognitive.concept_formation.color"},
						{"Size", "case_record.assessment.cognitive.concept_formation.size"},
						{"Sex", "case_record.assessment.cognitive.concept_formation.sex"},
						{"Shape", "case_record.assessment.cognitive.concept_formation.shape"},
						{"Number", "case_record.assessment.cognitive.concept_formation.number"},
						{"Time", "case_record.assessment.cognitive.concept_formation.time"},
						{"Money", "case_record.assessment.cognitive.concept_formation.money"},
					},
				},
				{
					ID:    "academic",
					Title: "Academic",
					Fields: []Field{
						{"Reading", "case_record.assessment.academic.reading"},
						{"Writing", "case_record.assessment.academic.writing"},
						{"Arithmetic", "case_record.assessment.academic.arithmetic"},
					},
				},
				{
					ID:    "prevocational",
					Title: "Prevocational",
					Fields: []Field{
						{"Ability and interest", "case_record.assessment.prevocational.ability_and_interest"},
						{"Items of interest", "case_record.assessment.prevocational.items_of_interest"},
						{"Items of dislike", "case_record.assessment.prevocational.items_of_dislike"},
					},
				},
				{
					ID:    "other-info",
					Title: "Other Info",
					Fields: []Field{
						{"Any peculiar behaviour/behaviour problems observed", "case_record.assessment.behaviour_problems"},
						{"Any other", "case_record.assessment.any_other"},
						{"Recommendation", "case_record.assessment.recommendation"},
					},
				},
			},
		},
	},
}

var TeacherDetails = Layout{
	Name:  LayoutTeacher,
	Title: "Teacher Details",
	Sections: []Section{
		{
			ID:    "personal",
			Title: "Personal Information",
			Fields: []Field{
				{"Name", "name"},
				{"Date of Birth", "date_of_birth"},
				{"Gender", "gender"},
				{"Blood Group", "blood_group"},
				{"Religion", "religion"},
				{"Caste", "caste"},
				{"Category", "category"},
				{"Aadhar Number", "aadhar_number"},
			},
		},
		{
			ID:    "contact",
			Title: "Contact",
			Fields: []Field{
				{"Address", "address"},
				{"Mobile Number", "mobile_number"},
				{"Email", "email"},
			},
		},
		{
			ID:    "qualifications",
			Title: "Qualifications",
			Fields: []Field{
				{"RCI Number", "rci_number"},
				{"RCI Renewal Date", "rci_renewal_date"},
				{"Qualifications", "qualifications_details"},
			},
		},
		{
			ID:    "classes",
			Title: "Class Assignments",
			Tables: []Table{{
				Title: "Class Assignments",
				Path:  "class_assignments",
				Columns: []Field{
					{"Class", "class"},
					{"Subject", "subject"},
					{"Days", "days"},
					{"Start", "startTime"},
					{"End", "endTime"},
				},
				Empty: "No classes assigned",
			}},
		},
	},
}
