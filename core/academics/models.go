package academics

import (
	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/catalog"
)

// Association facts. Each row links two entities under a (term, school year)
// attribution; the entity pair is the primary key, so re-recording the same
// pair is a duplicate, not an update.

type Study struct {
	StudentID  int    `json:"student_id" db:"student_id" validate:"required"`
	ProgramID  int    `json:"acad_program_id" db:"acad_program_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
}

func (s *Study) Validate() error { return core.Validate.Struct(s) }

type Enrollment struct {
	StudentID  int    `json:"student_id" db:"student_id" validate:"required"`
	CourseID   int    `json:"course_id" db:"course_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
}

func (e *Enrollment) Validate() error { return core.Validate.Struct(e) }

// Offer is a course section offered to a curriculum cohort; unlike the other
// associations the curriculum year is part of the key.
type Offer struct {
	ProgramID      int    `json:"acad_program_id" db:"acad_program_id" validate:"required"`
	CourseID       int    `json:"course_id" db:"course_id" validate:"required"`
	CurriculumYear string `json:"curriculum_yr" db:"curriculum_year" validate:"required"`
	Term           string `json:"term" db:"term" validate:"required"`
}

func (o *Offer) Validate() error { return core.Validate.Struct(o) }

type Teach struct {
	InstructorID int    `json:"instructor_id" db:"instructor_id" validate:"required"`
	CourseID     int    `json:"course_id" db:"course_id" validate:"required"`
	Term         string `json:"term" db:"term" validate:"required"`
	SchoolYear   string `json:"sy" db:"school_year" validate:"required"`
}

func (t *Teach) Validate() error { return core.Validate.Struct(t) }

type CourseLesson struct {
	CourseID   int    `json:"course_id" db:"course_id" validate:"required"`
	LessonID   int    `json:"lesson_id" db:"lesson_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
}

func (cl *CourseLesson) Validate() error { return core.Validate.Struct(cl) }

type LessonTest struct {
	LessonID   int    `json:"lesson_id" db:"lesson_id" validate:"required"`
	TestID     int    `json:"test_id" db:"test_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
}

func (lt *LessonTest) Validate() error { return core.Validate.Struct(lt) }

type LessonItem struct {
	LessonID   int    `json:"lesson_id" db:"lesson_id" validate:"required"`
	TestItemID int    `json:"test_item_id" db:"test_item_id" validate:"required"`
	Term       string `json:"term" db:"term" validate:"required"`
	SchoolYear string `json:"sy" db:"school_year" validate:"required"`
}

func (li *LessonItem) Validate() error { return core.Validate.Struct(li) }

// StudentEnrollments is a student's profile view: who they are, the program
// they study under and the courses they are enrolled in.
type StudentEnrollments struct {
	Student catalog.Student  `json:"student"`
	Program catalog.Program  `json:"acad_program"`
	Courses []catalog.Course `json:"enrollments"`
}
