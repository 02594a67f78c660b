package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	dummydb "github.com/elimu-cd/elimu/storage/database/dummy"
)

type testEnv struct {
	svc        catalog.Service
	academics  academics.Repository
	assessment assessment.Repository
}

func setup(t *testing.T) testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return testEnv{
		svc:        catalog.NewService(db, dummydb.NewCatalogRepository(db)),
		academics:  dummydb.NewAcademicsRepository(db),
		assessment: dummydb.NewAssessmentRepository(db),
	}
}

func Test_service_Programs(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	prog, err := env.svc.CreateProgram(ctx, catalog.NewProgram{Name: "Informatique"})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}

	// names are unique
	if _, err = env.svc.CreateProgram(ctx, catalog.NewProgram{Name: "Informatique"}); !core.IsDuplicateKeyError(err) {
		t.Errorf("CreateProgram() duplicate error = %v; want DuplicateKeyError", err)
	}

	updated, err := env.svc.UpdateProgram(ctx, prog.ID, catalog.UpdateProgram{Name: "Informatique de Gestion"})
	if err != nil {
		t.Fatalf("UpdateProgram() failed: %v", err)
	}
	if updated.Name != "Informatique de Gestion" {
		t.Errorf("UpdateProgram() name = %q", updated.Name)
	}

	if _, err = env.svc.GetProgram(ctx, 999); !core.IsNotFoundError(err) {
		t.Errorf("GetProgram() unknown id error = %v; want NotFoundError", err)
	}

	programs, err := env.svc.QueryPrograms(ctx)
	if err != nil {
		t.Fatalf("QueryPrograms() failed: %v", err)
	}
	if len(programs) != 1 {
		t.Errorf("QueryPrograms() returned %d programs; want 1", len(programs))
	}
}

func Test_service_DeleteProgram(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	prog, err := env.svc.CreateProgram(ctx, catalog.NewProgram{Name: "Informatique"})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}
	std, err := env.svc.CreateStudent(ctx, catalog.NewStudent{StudentNo: "STD-001", ProgramID: prog.ID})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	// a program with students never cascades
	if err = env.svc.DeleteProgram(ctx, prog.ID); !core.IsInUseError(err) {
		t.Errorf("DeleteProgram() with students error = %v; want InUseError", err)
	}
	if _, err = env.svc.GetProgram(ctx, prog.ID); err != nil {
		t.Errorf("program vanished after refused delete: %v", err)
	}

	if err = env.svc.DeleteStudent(ctx, std.ID); err != nil {
		t.Fatalf("DeleteStudent() failed: %v", err)
	}
	if err = env.svc.DeleteProgram(ctx, prog.ID); err != nil {
		t.Fatalf("DeleteProgram() failed: %v", err)
	}
	if err = env.svc.DeleteProgram(ctx, prog.ID); !core.IsNotFoundError(err) {
		t.Errorf("DeleteProgram() twice error = %v; want NotFoundError", err)
	}
}

func Test_service_Students(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	prog, err := env.svc.CreateProgram(ctx, catalog.NewProgram{Name: "Informatique"})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}

	// the program must exist
	if _, err = env.svc.CreateStudent(ctx, catalog.NewStudent{StudentNo: "STD-001", ProgramID: 999}); !core.IsReferentialError(err) {
		t.Errorf("CreateStudent() unknown program error = %v; want ReferentialError", err)
	}

	std, err := env.svc.CreateStudent(ctx, catalog.NewStudent{StudentNo: "STD-001", ProgramID: prog.ID})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	// student numbers are unique
	if _, err = env.svc.CreateStudent(ctx, catalog.NewStudent{StudentNo: "STD-001", ProgramID: prog.ID}); !core.IsDuplicateKeyError(err) {
		t.Errorf("CreateStudent() duplicate error = %v; want DuplicateKeyError", err)
	}

	updated, err := env.svc.UpdateStudent(ctx, std.ID, catalog.UpdateStudent{StudentNo: "STD-100", ProgramID: prog.ID})
	if err != nil {
		t.Fatalf("UpdateStudent() failed: %v", err)
	}
	if updated.StudentNo != "STD-100" {
		t.Errorf("UpdateStudent() student_no = %q", updated.StudentNo)
	}
}

func Test_service_DeleteStudent(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	prog, err := env.svc.CreateProgram(ctx, catalog.NewProgram{Name: "Informatique"})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}
	std, err := env.svc.CreateStudent(ctx, catalog.NewStudent{StudentNo: "STD-001", ProgramID: prog.ID})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	course, err := env.svc.CreateCourse(ctx, catalog.NewCourse{Code: "INF-101", Title: "Algorithmique"})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	enrollment := academics.Enrollment{StudentID: std.ID, CourseID: course.ID, Term: "T1", SchoolYear: "2020-2021"}
	if err = env.academics.CreateEnrollment(ctx, enrollment); err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}

	// deleting the student cascades their association rows
	if err = env.svc.DeleteStudent(ctx, std.ID); err != nil {
		t.Fatalf("DeleteStudent() failed: %v", err)
	}
	if _, err = env.svc.GetStudent(ctx, std.ID); !core.IsNotFoundError(err) {
		t.Errorf("GetStudent() after delete error = %v; want NotFoundError", err)
	}
	enr, err := env.academics.GetStudentEnrollments(ctx, std.ID)
	if !core.IsNotFoundError(err) {
		t.Errorf("GetStudentEnrollments() after delete = %v, %v; want NotFoundError", enr, err)
	}
}

func Test_service_Courses(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	course, err := env.svc.CreateCourse(ctx, catalog.NewCourse{Code: "INF-101", Title: "Algorithmique"})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}

	// codes are unique
	if _, err = env.svc.CreateCourse(ctx, catalog.NewCourse{Code: "INF-101", Title: "Other"}); !core.IsDuplicateKeyError(err) {
		t.Errorf("CreateCourse() duplicate error = %v; want DuplicateKeyError", err)
	}

	updated, err := env.svc.UpdateCourse(ctx, course.ID, catalog.UpdateCourse{Code: "INF-102", Title: "Structures de Données"})
	if err != nil {
		t.Fatalf("UpdateCourse() failed: %v", err)
	}
	if updated.Code != "INF-102" {
		t.Errorf("UpdateCourse() code = %q", updated.Code)
	}

	if err = env.svc.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("DeleteCourse() failed: %v", err)
	}
	if _, err = env.svc.GetCourse(ctx, course.ID); !core.IsNotFoundError(err) {
		t.Errorf("GetCourse() after delete error = %v; want NotFoundError", err)
	}
}

func Test_service_Lessons(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	lesson, err := env.svc.CreateLesson(ctx, catalog.NewLesson{Title: "Les tableaux"})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}

	updated, err := env.svc.UpdateLesson(ctx, lesson.ID, catalog.UpdateLesson{Title: "Les listes"})
	if err != nil {
		t.Fatalf("UpdateLesson() failed: %v", err)
	}
	if updated.Title != "Les listes" {
		t.Errorf("UpdateLesson() title = %q", updated.Title)
	}

	if err = env.svc.DeleteLesson(ctx, lesson.ID); err != nil {
		t.Fatalf("DeleteLesson() failed: %v", err)
	}
	if _, err = env.svc.GetLesson(ctx, lesson.ID); !core.IsNotFoundError(err) {
		t.Errorf("GetLesson() after delete error = %v; want NotFoundError", err)
	}
}

func Test_service_DeleteInstructor(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	instr, err := env.svc.CreateInstructor(ctx, catalog.NewInstructor{Name: "Prof. Kalala"})
	if err != nil {
		t.Fatalf("CreateInstructor() failed: %v", err)
	}
	test, err := env.assessment.CreateTest(ctx, assessment.Test{Date: time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}
	authorship := assessment.Authorship{InstructorID: instr.ID, TestID: test.ID, Term: "T1", SchoolYear: "2020-2021"}
	if err = env.assessment.CreateAuthorship(ctx, authorship); err != nil {
		t.Fatalf("CreateAuthorship() failed: %v", err)
	}

	// an instructor still credited with tests cannot be removed
	if err = env.svc.DeleteInstructor(ctx, instr.ID); !core.IsInUseError(err) {
		t.Errorf("DeleteInstructor() with authorships error = %v; want InUseError", err)
	}
	if _, err = env.svc.GetInstructor(ctx, instr.ID); err != nil {
		t.Errorf("instructor vanished after refused delete: %v", err)
	}

	if err = env.assessment.DeleteAuthorshipsByTest(ctx, test.ID); err != nil {
		t.Fatalf("DeleteAuthorshipsByTest() failed: %v", err)
	}
	if err = env.svc.DeleteInstructor(ctx, instr.ID); err != nil {
		t.Fatalf("DeleteInstructor() failed: %v", err)
	}
	if _, err = env.svc.GetInstructor(ctx, instr.ID); !core.IsNotFoundError(err) {
		t.Errorf("GetInstructor() after delete error = %v; want NotFoundError", err)
	}
}
