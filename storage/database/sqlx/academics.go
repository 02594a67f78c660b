package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/catalog"
)

type academicsRepository struct {
	db core.DBExecutor
}

var _ academics.Repository = (*academicsRepository)(nil)

func NewAcademicsRepository(db core.DBExecutor) *academicsRepository {
	return &academicsRepository{db: db}
}

func (repo *academicsRepository) CreateStudy(ctx context.Context, s academics.Study, exec ...core.DBExecutor) error {
	const query = `INSERT INTO study (student_id, acad_program_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, s.StudentID, s.ProgramID, s.Term, s.SchoolYear)
	return trapErr(err, "study")
}

func (repo *academicsRepository) CreateEnrollment(ctx context.Context, e academics.Enrollment, exec ...core.DBExecutor) error {
	const query = `INSERT INTO enroll (student_id, course_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, e.StudentID, e.CourseID, e.Term, e.SchoolYear)
	return trapErr(err, "enrollment")
}

func (repo *academicsRepository) CreateOffer(ctx context.Context, o academics.Offer, exec ...core.DBExecutor) error {
	const query = `INSERT INTO offer (acad_program_id, course_id, curriculum_year, term) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, o.ProgramID, o.CourseID, o.CurriculumYear, o.Term)
	return trapErr(err, "offer")
}

func (repo *academicsRepository) CreateTeach(ctx context.Context, t academics.Teach, exec ...core.DBExecutor) error {
	const query = `INSERT INTO teach (instructor_id, course_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, t.InstructorID, t.CourseID, t.Term, t.SchoolYear)
	return trapErr(err, "teach")
}

func (repo *academicsRepository) CreateCourseLesson(ctx context.Context, cl academics.CourseLesson, exec ...core.DBExecutor) error {
	const query = `INSERT INTO course_lesson (course_id, lesson_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, cl.CourseID, cl.LessonID, cl.Term, cl.SchoolYear)
	return trapErr(err, "course lesson")
}

func (repo *academicsRepository) CreateLessonTest(ctx context.Context, lt academics.LessonTest, exec ...core.DBExecutor) error {
	const query = `INSERT INTO lesson_test (lesson_id, test_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, lt.LessonID, lt.TestID, lt.Term, lt.SchoolYear)
	return trapErr(err, "lesson test")
}

func (repo *academicsRepository) CreateLessonItem(ctx context.Context, li academics.LessonItem, exec ...core.DBExecutor) error {
	const query = `INSERT INTO lesson_item (lesson_id, test_item_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, li.LessonID, li.TestItemID, li.Term, li.SchoolYear)
	return trapErr(err, "lesson item")
}

func (repo *academicsRepository) GetStudentEnrollments(ctx context.Context, studentID int, exec ...core.DBExecutor) (academics.StudentEnrollments, error) {
	ex := executor(repo.db, exec)

	var enr academics.StudentEnrollments
	const studentQuery = `
		SELECT s.id, s.student_no, s.acad_program_id, p.id AS program_id, p.acad_name
		FROM student s
		JOIN acad_program p ON p.id = s.acad_program_id
		WHERE s.id = $1`
	var row struct {
		ID        int    `db:"id"`
		StudentNo string `db:"student_no"`
		ProgramID int    `db:"acad_program_id"`
		PID       int    `db:"program_id"`
		Name      string `db:"acad_name"`
	}
	if err := ex.GetContext(ctx, &row, studentQuery, studentID); err != nil {
		return academics.StudentEnrollments{}, trapErr(err, "student")
	}
	enr.Student = catalog.Student{ID: row.ID, StudentNo: row.StudentNo, ProgramID: row.ProgramID}
	enr.Program = catalog.Program{ID: row.PID, Name: row.Name}

	const coursesQuery = `
		SELECT c.id, c.code, c.title
		FROM course c
		JOIN enroll e ON e.course_id = c.id
		WHERE e.student_id = $1
		ORDER BY c.code`
	if err := ex.SelectContext(ctx, &enr.Courses, coursesQuery, studentID); err != nil {
		return academics.StudentEnrollments{}, errors.Wrap(err, "querying enrollments")
	}
	return enr, nil
}

func (repo *academicsRepository) QueryCoursesByInstructor(ctx context.Context, instructorID int, exec ...core.DBExecutor) ([]catalog.Course, error) {
	const query = `
		SELECT c.id, c.code, c.title
		FROM course c
		JOIN teach t ON t.course_id = c.id
		WHERE t.instructor_id = $1
		ORDER BY c.code`
	var courses []catalog.Course
	if err := executor(repo.db, exec).SelectContext(ctx, &courses, query, instructorID); err != nil {
		return nil, errors.Wrap(err, "querying instructor courses")
	}
	return courses, nil
}
