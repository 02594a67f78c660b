package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/catalog"
)

type catalogRepository struct {
	db core.DBExecutor
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db core.DBExecutor) *catalogRepository {
	return &catalogRepository{db: db}
}

// Programs

func (repo *catalogRepository) CreateProgram(ctx context.Context, p catalog.Program, exec ...core.DBExecutor) (catalog.Program, error) {
	const query = `INSERT INTO acad_program (acad_name) VALUES ($1) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &p.ID, query, p.Name); err != nil {
		return catalog.Program{}, trapErr(err, "academic program")
	}
	return p, nil
}

func (repo *catalogRepository) GetProgramByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Program, error) {
	const query = `SELECT id, acad_name FROM acad_program WHERE id = $1`
	var p catalog.Program
	if err := executor(repo.db, exec).GetContext(ctx, &p, query, id); err != nil {
		return catalog.Program{}, trapErr(err, "academic program")
	}
	return p, nil
}

func (repo *catalogRepository) QueryPrograms(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Program, error) {
	const query = `SELECT id, acad_name FROM acad_program ORDER BY acad_name`
	var programs []catalog.Program
	if err := executor(repo.db, exec).SelectContext(ctx, &programs, query); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	return programs, nil
}

func (repo *catalogRepository) UpdateProgram(ctx context.Context, p catalog.Program, exec ...core.DBExecutor) (catalog.Program, error) {
	const query = `UPDATE acad_program SET acad_name = $1 WHERE id = $2`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, p.Name, p.ID)
	if err != nil {
		return catalog.Program{}, trapErr(err, "academic program")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.Program{}, core.NewNotFoundError("academic program")
	}
	return p, nil
}

func (repo *catalogRepository) DeleteProgram(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM acad_program WHERE id = $1`, id)
	return trapErr(err, "academic program")
}

func (repo *catalogRepository) ProgramInUse(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	const query = `
		SELECT EXISTS (SELECT 1 FROM student WHERE acad_program_id = $1)
			OR EXISTS (SELECT 1 FROM study WHERE acad_program_id = $1)
			OR EXISTS (SELECT 1 FROM offer WHERE acad_program_id = $1)`
	var inUse bool
	if err := executor(repo.db, exec).GetContext(ctx, &inUse, query, id); err != nil {
		return false, errors.Wrap(err, "checking program references")
	}
	return inUse, nil
}

// Students

func (repo *catalogRepository) CreateStudent(ctx context.Context, s catalog.Student, exec ...core.DBExecutor) (catalog.Student, error) {
	const query = `INSERT INTO student (student_no, acad_program_id) VALUES ($1, $2) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &s.ID, query, s.StudentNo, s.ProgramID); err != nil {
		return catalog.Student{}, trapErr(err, "student")
	}
	return s, nil
}

func (repo *catalogRepository) GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Student, error) {
	const query = `SELECT id, student_no, acad_program_id FROM student WHERE id = $1`
	var s catalog.Student
	if err := executor(repo.db, exec).GetContext(ctx, &s, query, id); err != nil {
		return catalog.Student{}, trapErr(err, "student")
	}
	return s, nil
}

func (repo *catalogRepository) QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Student, error) {
	const query = `SELECT id, student_no, acad_program_id FROM student ORDER BY student_no`
	var students []catalog.Student
	if err := executor(repo.db, exec).SelectContext(ctx, &students, query); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *catalogRepository) UpdateStudent(ctx context.Context, s catalog.Student, exec ...core.DBExecutor) (catalog.Student, error) {
	const query = `UPDATE student SET student_no = $1, acad_program_id = $2 WHERE id = $3`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, s.StudentNo, s.ProgramID, s.ID)
	if err != nil {
		return catalog.Student{}, trapErr(err, "student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.Student{}, core.NewNotFoundError("student")
	}
	return s, nil
}

func (repo *catalogRepository) DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	return trapErr(err, "student")
}

func (repo *catalogRepository) DeleteStudentAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	ex := executor(repo.db, exec)
	for _, table := range []string{"study", "enroll", "test_take", "test_answer"} {
		if _, err := ex.ExecContext(ctx, `DELETE FROM `+table+` WHERE student_id = $1`, id); err != nil {
			return errors.Wrapf(err, "deleting %s rows", table)
		}
	}
	return nil
}

// Courses

func (repo *catalogRepository) CreateCourse(ctx context.Context, c catalog.Course, exec ...core.DBExecutor) (catalog.Course, error) {
	const query = `INSERT INTO course (code, title) VALUES ($1, $2) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &c.ID, query, c.Code, c.Title); err != nil {
		return catalog.Course{}, trapErr(err, "course")
	}
	return c, nil
}

func (repo *catalogRepository) GetCourseByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Course, error) {
	const query = `SELECT id, code, title FROM course WHERE id = $1`
	var c catalog.Course
	if err := executor(repo.db, exec).GetContext(ctx, &c, query, id); err != nil {
		return catalog.Course{}, trapErr(err, "course")
	}
	return c, nil
}

func (repo *catalogRepository) QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Course, error) {
	const query = `SELECT id, code, title FROM course ORDER BY code`
	var courses []catalog.Course
	if err := executor(repo.db, exec).SelectContext(ctx, &courses, query); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *catalogRepository) UpdateCourse(ctx context.Context, c catalog.Course, exec ...core.DBExecutor) (catalog.Course, error) {
	const query = `UPDATE course SET code = $1, title = $2 WHERE id = $3`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, c.Code, c.Title, c.ID)
	if err != nil {
		return catalog.Course{}, trapErr(err, "course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.Course{}, core.NewNotFoundError("course")
	}
	return c, nil
}

func (repo *catalogRepository) DeleteCourse(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	return trapErr(err, "course")
}

func (repo *catalogRepository) DeleteCourseAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	ex := executor(repo.db, exec)
	for _, table := range []string{"enroll", "offer", "teach", "course_lesson"} {
		if _, err := ex.ExecContext(ctx, `DELETE FROM `+table+` WHERE course_id = $1`, id); err != nil {
			return errors.Wrapf(err, "deleting %s rows", table)
		}
	}
	return nil
}

// Lessons

func (repo *catalogRepository) CreateLesson(ctx context.Context, l catalog.Lesson, exec ...core.DBExecutor) (catalog.Lesson, error) {
	const query = `INSERT INTO lesson (title) VALUES ($1) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &l.ID, query, l.Title); err != nil {
		return catalog.Lesson{}, trapErr(err, "lesson")
	}
	return l, nil
}

func (repo *catalogRepository) GetLessonByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Lesson, error) {
	const query = `SELECT id, title FROM lesson WHERE id = $1`
	var l catalog.Lesson
	if err := executor(repo.db, exec).GetContext(ctx, &l, query, id); err != nil {
		return catalog.Lesson{}, trapErr(err, "lesson")
	}
	return l, nil
}

func (repo *catalogRepository) QueryLessons(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Lesson, error) {
	const query = `SELECT id, title FROM lesson ORDER BY title`
	var lessons []catalog.Lesson
	if err := executor(repo.db, exec).SelectContext(ctx, &lessons, query); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	return lessons, nil
}

func (repo *catalogRepository) UpdateLesson(ctx context.Context, l catalog.Lesson, exec ...core.DBExecutor) (catalog.Lesson, error) {
	const query = `UPDATE lesson SET title = $1 WHERE id = $2`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, l.Title, l.ID)
	if err != nil {
		return catalog.Lesson{}, trapErr(err, "lesson")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.Lesson{}, core.NewNotFoundError("lesson")
	}
	return l, nil
}

func (repo *catalogRepository) DeleteLesson(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	return trapErr(err, "lesson")
}

func (repo *catalogRepository) DeleteLessonAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	ex := executor(repo.db, exec)
	for _, table := range []string{"course_lesson", "lesson_test", "lesson_item"} {
		if _, err := ex.ExecContext(ctx, `DELETE FROM `+table+` WHERE lesson_id = $1`, id); err != nil {
			return errors.Wrapf(err, "deleting %s rows", table)
		}
	}
	return nil
}

// Instructors

func (repo *catalogRepository) CreateInstructor(ctx context.Context, i catalog.Instructor, exec ...core.DBExecutor) (catalog.Instructor, error) {
	const query = `INSERT INTO instructor (name) VALUES ($1) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &i.ID, query, i.Name); err != nil {
		return catalog.Instructor{}, trapErr(err, "instructor")
	}
	return i, nil
}

func (repo *catalogRepository) GetInstructorByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Instructor, error) {
	const query = `SELECT id, name FROM instructor WHERE id = $1`
	var i catalog.Instructor
	if err := executor(repo.db, exec).GetContext(ctx, &i, query, id); err != nil {
		return catalog.Instructor{}, trapErr(err, "instructor")
	}
	return i, nil
}

func (repo *catalogRepository) QueryInstructors(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Instructor, error) {
	const query = `SELECT id, name FROM instructor ORDER BY name`
	var instructors []catalog.Instructor
	if err := executor(repo.db, exec).SelectContext(ctx, &instructors, query); err != nil {
		return nil, errors.Wrap(err, "querying instructors")
	}
	return instructors, nil
}

func (repo *catalogRepository) UpdateInstructor(ctx context.Context, i catalog.Instructor, exec ...core.DBExecutor) (catalog.Instructor, error) {
	const query = `UPDATE instructor SET name = $1 WHERE id = $2`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, i.Name, i.ID)
	if err != nil {
		return catalog.Instructor{}, trapErr(err, "instructor")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.Instructor{}, core.NewNotFoundError("instructor")
	}
	return i, nil
}

func (repo *catalogRepository) DeleteInstructor(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM instructor WHERE id = $1`, id)
	return trapErr(err, "instructor")
}

func (repo *catalogRepository) DeleteInstructorAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM teach WHERE instructor_id = $1`, id)
	return errors.Wrap(err, "deleting teach rows")
}

func (repo *catalogRepository) InstructorHasAuthorships(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	const query = `
		SELECT EXISTS (SELECT 1 FROM test_create WHERE instructor_id = $1)
			OR EXISTS (SELECT 1 FROM construct WHERE instructor_id = $1)`
	var owns bool
	if err := executor(repo.db, exec).GetContext(ctx, &owns, query, id); err != nil {
		return false, errors.Wrap(err, "checking instructor authorships")
	}
	return owns, nil
}
