package assessment

import (
	"time"

	"github.com/elimu-cd/elimu/core"
)

// Test is an assessment owned by exactly one creating instructor through its
// authorship edge.
type Test struct {
	ID   int       `json:"id" db:"id"`
	Date time.Time `json:"date" db:"test_date"`
}

// TestItem is a question/answer pair. Items may be shared: several
// instructors can hold construct edges to the same item through different
// tests, which is what the deletion guard protects.
type TestItem struct {
	ID        int    `json:"id" db:"id"`
	Question  string `json:"question" db:"question"`
	Answer    string `json:"answer" db:"answer"`
	Published bool   `json:"published" db:"published"`
}

// Authorship links the creating instructor to a test (test_create table).
type Authorship struct {
	InstructorID int    `json:"instructor_id" db:"instructor_id"`
	TestID       int    `json:"test_id" db:"test_id"`
	Term         string `json:"term" db:"term"`
	SchoolYear   string `json:"sy" db:"school_year"`
}

// Construct links a constructing instructor to a test item, scoped to the
// test the item was added through. The test id is what lets the guard tell
// "mine, under this test" apart from "someone else's, under another test".
type Construct struct {
	InstructorID int    `json:"instructor_id" db:"instructor_id"`
	TestItemID   int    `json:"test_item_id" db:"test_item_id"`
	TestID       int    `json:"test_id" db:"test_id"`
	Term         string `json:"term" db:"term"`
	SchoolYear   string `json:"sy" db:"school_year"`
}

// Take is a student's attempt record for a test.
type Take struct {
	StudentID  int    `json:"student_id" db:"student_id" validate:"required"`
	TestID     int    `json:"test_id" db:"test_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
}

func (t *Take) Validate() error { return core.Validate.Struct(t) }

// Answer is a student's submitted response to a test item.
type Answer struct {
	StudentID  int    `json:"student_id" db:"student_id" validate:"required"`
	TestItemID int    `json:"test_item_id" db:"test_item_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
	Response   string `json:"answer" db:"response" validate:"required"`
}

func (a *Answer) Validate() error { return core.Validate.Struct(a) }

// Assessment is the admin view of a test together with its items.
type Assessment struct {
	Test  Test       `json:"test"`
	Items []TestItem `json:"items"`
}

type NewTest struct {
	Date time.Time `json:"date" validate:"required"`
}

func (nt *NewTest) Validate() error { return core.Validate.Struct(nt) }

type UpdateTest struct {
	Date time.Time `json:"date" validate:"required"`
}

func (ut *UpdateTest) Validate() error { return core.Validate.Struct(ut) }

type NewItem struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (ni *NewItem) Validate() error {
	ni.Question = core.CleanString(ni.Question)
	ni.Answer = core.CleanString(ni.Answer)
	return core.Validate.Struct(ni)
}

type UpdateItem struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (ui *UpdateItem) Validate() error {
	ui.Question = core.CleanString(ui.Question)
	ui.Answer = core.CleanString(ui.Answer)
	return core.Validate.Struct(ui)
}
