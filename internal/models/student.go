package models

import "time"

// Student is a registered learner. Email is unique across students
// (case-insensitively), checked at mutation time.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Fullname  string    `db:"fullname" json:"fullname"`
	Email     string    `db:"email" json:"email"`
	Age       int       `db:"age" json:"age"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
