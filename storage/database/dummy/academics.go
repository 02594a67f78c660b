package dummydb

import (
	"context"
	"sort"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/catalog"
)

type academicsRepository struct {
	db *DB
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) academics.Repository {
	return &academicsRepository{db: db}
}

func (repo *academicsRepository) CreateStudy(ctx context.Context, s academics.Study, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[s.StudentID]; !ok {
		return core.NewReferentialError("student")
	}
	if _, ok := repo.db.programs[s.ProgramID]; !ok {
		return core.NewReferentialError("academic program")
	}
	for _, existing := range repo.db.studies {
		if existing.StudentID == s.StudentID && existing.ProgramID == s.ProgramID {
			return core.NewDuplicateKeyError("study")
		}
	}
	repo.db.studies = append(repo.db.studies, s)
	return nil
}

func (repo *academicsRepository) CreateEnrollment(ctx context.Context, e academics.Enrollment, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[e.StudentID]; !ok {
		return core.NewReferentialError("student")
	}
	if _, ok := repo.db.courses[e.CourseID]; !ok {
		return core.NewReferentialError("course")
	}
	for _, existing := range repo.db.enrollments {
		if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID {
			return core.NewDuplicateKeyError("enrollment")
		}
	}
	repo.db.enrollments = append(repo.db.enrollments, e)
	return nil
}

func (repo *academicsRepository) CreateOffer(ctx context.Context, o academics.Offer, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.programs[o.ProgramID]; !ok {
		return core.NewReferentialError("academic program")
	}
	if _, ok := repo.db.courses[o.CourseID]; !ok {
		return core.NewReferentialError("course")
	}
	for _, existing := range repo.db.offers {
		if existing.ProgramID == o.ProgramID && existing.CourseID == o.CourseID && existing.CurriculumYear == o.CurriculumYear {
			return core.NewDuplicateKeyError("offer")
		}
	}
	repo.db.offers = append(repo.db.offers, o)
	return nil
}

func (repo *academicsRepository) CreateTeach(ctx context.Context, t academics.Teach, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.instructors[t.InstructorID]; !ok {
		return core.NewReferentialError("instructor")
	}
	if _, ok := repo.db.courses[t.CourseID]; !ok {
		return core.NewReferentialError("course")
	}
	for _, existing := range repo.db.teaches {
		if existing.InstructorID == t.InstructorID && existing.CourseID == t.CourseID {
			return core.NewDuplicateKeyError("teach")
		}
	}
	repo.db.teaches = append(repo.db.teaches, t)
	return nil
}

func (repo *academicsRepository) CreateCourseLesson(ctx context.Context, cl academics.CourseLesson, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[cl.CourseID]; !ok {
		return core.NewReferentialError("course")
	}
	if _, ok := repo.db.lessons[cl.LessonID]; !ok {
		return core.NewReferentialError("lesson")
	}
	for _, existing := range repo.db.courseLessons {
		if existing.CourseID == cl.CourseID && existing.LessonID == cl.LessonID {
			return core.NewDuplicateKeyError("course lesson")
		}
	}
	repo.db.courseLessons = append(repo.db.courseLessons, cl)
	return nil
}

func (repo *academicsRepository) CreateLessonTest(ctx context.Context, lt academics.LessonTest, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.lessons[lt.LessonID]; !ok {
		return core.NewReferentialError("lesson")
	}
	if _, ok := repo.db.tests[lt.TestID]; !ok {
		return core.NewReferentialError("test")
	}
	for _, existing := range repo.db.lessonTests {
		if existing.LessonID == lt.LessonID && existing.TestID == lt.TestID {
			return core.NewDuplicateKeyError("lesson test")
		}
	}
	repo.db.lessonTests = append(repo.db.lessonTests, lt)
	return nil
}

func (repo *academicsRepository) CreateLessonItem(ctx context.Context, li academics.LessonItem, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.lessons[li.LessonID]; !ok {
		return core.NewReferentialError("lesson")
	}
	if _, ok := repo.db.items[li.TestItemID]; !ok {
		return core.NewReferentialError("test item")
	}
	for _, existing := range repo.db.lessonItems {
		if existing.LessonID == li.LessonID && existing.TestItemID == li.TestItemID {
			return core.NewDuplicateKeyError("lesson item")
		}
	}
	repo.db.lessonItems = append(repo.db.lessonItems, li)
	return nil
}

func (repo *academicsRepository) GetStudentEnrollments(ctx context.Context, studentID int, exec ...core.DBExecutor) (academics.StudentEnrollments, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	student, ok := repo.db.students[studentID]
	if !ok {
		return academics.StudentEnrollments{}, core.NewNotFoundError("student")
	}
	enr := academics.StudentEnrollments{Student: *student}
	if program, ok := repo.db.programs[student.ProgramID]; ok {
		enr.Program = *program
	}
	for _, e := range repo.db.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if course, ok := repo.db.courses[e.CourseID]; ok {
			enr.Courses = append(enr.Courses, *course)
		}
	}
	sort.Slice(enr.Courses, func(i, j int) bool { return enr.Courses[i].Code < enr.Courses[j].Code })
	return enr, nil
}

func (repo *academicsRepository) QueryCoursesByInstructor(ctx context.Context, instructorID int, exec ...core.DBExecutor) ([]catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var courses []catalog.Course
	for _, t := range repo.db.teaches {
		if t.InstructorID != instructorID {
			continue
		}
		if course, ok := repo.db.courses[t.CourseID]; ok {
			courses = append(courses, *course)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}
