package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
)

type (
	Repository interface {
		CreateProgram(ctx context.Context, p Program, exec ...core.DBExecutor) (Program, error)
		GetProgramByID(ctx context.Context, id int, exec ...core.DBExecutor) (Program, error)
		QueryPrograms(ctx context.Context, exec ...core.DBExecutor) ([]Program, error)
		UpdateProgram(ctx context.Context, p Program, exec ...core.DBExecutor) (Program, error)
		DeleteProgram(ctx context.Context, id int, exec ...core.DBExecutor) error
		// ProgramInUse reports whether any student, study or offer row still
		// references the program.
		ProgramInUse(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)

		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteStudentAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error

		CreateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		GetCourseByID(ctx context.Context, id int, exec ...core.DBExecutor) (Course, error)
		QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		DeleteCourse(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteCourseAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error

		CreateLesson(ctx context.Context, l Lesson, exec ...core.DBExecutor) (Lesson, error)
		GetLessonByID(ctx context.Context, id int, exec ...core.DBExecutor) (Lesson, error)
		QueryLessons(ctx context.Context, exec ...core.DBExecutor) ([]Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson, exec ...core.DBExecutor) (Lesson, error)
		DeleteLesson(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteLessonAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error

		CreateInstructor(ctx context.Context, i Instructor, exec ...core.DBExecutor) (Instructor, error)
		GetInstructorByID(ctx context.Context, id int, exec ...core.DBExecutor) (Instructor, error)
		// QueryInstructors returns the faculty ordered by name.
		QueryInstructors(ctx context.Context, exec ...core.DBExecutor) ([]Instructor, error)
		UpdateInstructor(ctx context.Context, i Instructor, exec ...core.DBExecutor) (Instructor, error)
		DeleteInstructor(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteInstructorAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error
		// InstructorHasAuthorships reports whether the instructor still owns
		// tests or test items through test_create/construct edges.
		InstructorHasAuthorships(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
	}

	Service interface {
		CreateProgram(ctx context.Context, np NewProgram) (Program, error)
		GetProgram(ctx context.Context, id int) (Program, error)
		QueryPrograms(ctx context.Context) ([]Program, error)
		UpdateProgram(ctx context.Context, id int, up UpdateProgram) (Program, error)
		DeleteProgram(ctx context.Context, id int) error

		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		UpdateStudent(ctx context.Context, id int, us UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, id int) error

		CreateCourse(ctx context.Context, nc NewCourse) (Course, error)
		GetCourse(ctx context.Context, id int) (Course, error)
		QueryCourses(ctx context.Context) ([]Course, error)
		UpdateCourse(ctx context.Context, id int, uc UpdateCourse) (Course, error)
		DeleteCourse(ctx context.Context, id int) error

		CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error)
		GetLesson(ctx context.Context, id int) (Lesson, error)
		QueryLessons(ctx context.Context) ([]Lesson, error)
		UpdateLesson(ctx context.Context, id int, ul UpdateLesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id int) error

		CreateInstructor(ctx context.Context, ni NewInstructor) (Instructor, error)
		GetInstructor(ctx context.Context, id int) (Instructor, error)
		QueryInstructors(ctx context.Context) ([]Instructor, error)
		UpdateInstructor(ctx context.Context, id int, ui UpdateInstructor) (Instructor, error)
		DeleteInstructor(ctx context.Context, id int) error
	}

	service struct {
		db   core.DB
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// Programs

func (svc *service) CreateProgram(ctx context.Context, np NewProgram) (Program, error) {
	return svc.repo.CreateProgram(ctx, Program{Name: np.Name})
}

func (svc *service) GetProgram(ctx context.Context, id int) (Program, error) {
	return svc.repo.GetProgramByID(ctx, id)
}

func (svc *service) QueryPrograms(ctx context.Context) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx)
}

func (svc *service) UpdateProgram(ctx context.Context, id int, up UpdateProgram) (Program, error) {
	return svc.repo.UpdateProgram(ctx, Program{ID: id, Name: up.Name})
}

// DeleteProgram refuses while any student or association row still references
// the program; programs are shared by design and never cascade.
func (svc *service) DeleteProgram(ctx context.Context, id int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.repo.GetProgramByID(ctx, id, tx); err != nil {
			return err
		}
		inUse, err := svc.repo.ProgramInUse(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "checking program references")
		}
		if inUse {
			return core.NewInUseError("academic program", "students or course offerings still reference it")
		}
		return svc.repo.DeleteProgram(ctx, id, tx)
	})
}

// Students

func (svc *service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetProgramByID(ctx, ns.ProgramID); err != nil {
		if core.IsNotFoundError(err) {
			return Student{}, core.NewReferentialError("academic program")
		}
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, Student{StudentNo: ns.StudentNo, ProgramID: ns.ProgramID})
}

func (svc *service) GetStudent(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *service) UpdateStudent(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	if _, err := svc.repo.GetProgramByID(ctx, us.ProgramID); err != nil {
		if core.IsNotFoundError(err) {
			return Student{}, core.NewReferentialError("academic program")
		}
		return Student{}, err
	}
	return svc.repo.UpdateStudent(ctx, Student{ID: id, StudentNo: us.StudentNo, ProgramID: us.ProgramID})
}

func (svc *service) DeleteStudent(ctx context.Context, id int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.repo.GetStudentByID(ctx, id, tx); err != nil {
			return err
		}
		if err := svc.repo.DeleteStudentAssociations(ctx, id, tx); err != nil {
			return errors.Wrap(err, "deleting student associations")
		}
		return svc.repo.DeleteStudent(ctx, id, tx)
	})
}

// Courses

func (svc *service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	return svc.repo.CreateCourse(ctx, Course{Code: nc.Code, Title: nc.Title})
}

func (svc *service) GetCourse(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *service) UpdateCourse(ctx context.Context, id int, uc UpdateCourse) (Course, error) {
	return svc.repo.UpdateCourse(ctx, Course{ID: id, Code: uc.Code, Title: uc.Title})
}

func (svc *service) DeleteCourse(ctx context.Context, id int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.repo.GetCourseByID(ctx, id, tx); err != nil {
			return err
		}
		if err := svc.repo.DeleteCourseAssociations(ctx, id, tx); err != nil {
			return errors.Wrap(err, "deleting course associations")
		}
		return svc.repo.DeleteCourse(ctx, id, tx)
	})
}

// Lessons

func (svc *service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	return svc.repo.CreateLesson(ctx, Lesson{Title: nl.Title})
}

func (svc *service) GetLesson(ctx context.Context, id int) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) QueryLessons(ctx context.Context) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx)
}

func (svc *service) UpdateLesson(ctx context.Context, id int, ul UpdateLesson) (Lesson, error) {
	return svc.repo.UpdateLesson(ctx, Lesson{ID: id, Title: ul.Title})
}

func (svc *service) DeleteLesson(ctx context.Context, id int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.repo.GetLessonByID(ctx, id, tx); err != nil {
			return err
		}
		if err := svc.repo.DeleteLessonAssociations(ctx, id, tx); err != nil {
			return errors.Wrap(err, "deleting lesson associations")
		}
		return svc.repo.DeleteLesson(ctx, id, tx)
	})
}

// Instructors

func (svc *service) CreateInstructor(ctx context.Context, ni NewInstructor) (Instructor, error) {
	return svc.repo.CreateInstructor(ctx, Instructor{Name: ni.Name})
}

func (svc *service) GetInstructor(ctx context.Context, id int) (Instructor, error) {
	return svc.repo.GetInstructorByID(ctx, id)
}

func (svc *service) QueryInstructors(ctx context.Context) ([]Instructor, error) {
	return svc.repo.QueryInstructors(ctx)
}

func (svc *service) UpdateInstructor(ctx context.Context, id int, ui UpdateInstructor) (Instructor, error) {
	return svc.repo.UpdateInstructor(ctx, Instructor{ID: id, Name: ui.Name})
}

// DeleteInstructor cascades the instructor's teach rows but refuses while the
// instructor still holds authorship edges: the tests/items those edges guard
// must be deleted (or reassigned) first.
func (svc *service) DeleteInstructor(ctx context.Context, id int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.repo.GetInstructorByID(ctx, id, tx); err != nil {
			return err
		}
		owns, err := svc.repo.InstructorHasAuthorships(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "checking instructor authorships")
		}
		if owns {
			return core.NewInUseError("instructor", "tests or test items still credit this instructor")
		}
		if err := svc.repo.DeleteInstructorAssociations(ctx, id, tx); err != nil {
			return errors.Wrap(err, "deleting instructor associations")
		}
		return svc.repo.DeleteInstructor(ctx, id, tx)
	})
}
