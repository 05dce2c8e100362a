package models

// Enrollment links a student to a subject. The referenced ids are trusted
// at write time, and nothing prevents duplicate (student_id, subject_id)
// pairs; both match the source system.
type Enrollment struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	Approved  *bool  `db:"approved" json:"approved"`
}

// EnrollmentDetail enriches Enrollment with the joined display names.
type EnrollmentDetail struct {
	Enrollment
	StudentFullname string `db:"student_fullname" json:"student_fullname"`
	SubjectName     string `db:"subject_name" json:"subject_name"`
}

// StudentSubject is one row of a student's subject listing.
type StudentSubject struct {
	SubjectID string `db:"subject_id" json:"subject_id"`
	Name      string `db:"name" json:"name"`
	Approved  *bool  `db:"approved" json:"approved"`
}
