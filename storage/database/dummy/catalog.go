package dummydb

import (
	"context"
	"sort"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

// Programs

func (repo *catalogRepository) CreateProgram(ctx context.Context, p catalog.Program, exec ...core.DBExecutor) (catalog.Program, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.programs {
		if existing.Name == p.Name {
			return catalog.Program{}, core.NewDuplicateKeyError("academic program")
		}
	}
	p.ID = repo.db.pk()
	repo.db.programs[p.ID] = &p
	return p, nil
}

func (repo *catalogRepository) GetProgramByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Program, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.programs[id]; ok {
		return *p, nil
	}
	return catalog.Program{}, core.NewNotFoundError("academic program")
}

func (repo *catalogRepository) QueryPrograms(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Program, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	programs := make([]catalog.Program, 0, len(repo.db.programs))
	for _, p := range repo.db.programs {
		programs = append(programs, *p)
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].Name < programs[j].Name })
	return programs, nil
}

func (repo *catalogRepository) UpdateProgram(ctx context.Context, p catalog.Program, exec ...core.DBExecutor) (catalog.Program, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.programs[p.ID]; !ok {
		return catalog.Program{}, core.NewNotFoundError("academic program")
	}
	repo.db.programs[p.ID] = &p
	return p, nil
}

func (repo *catalogRepository) DeleteProgram(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.programs, id)
	return nil
}

func (repo *catalogRepository) ProgramInUse(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, s := range repo.db.students {
		if s.ProgramID == id {
			return true, nil
		}
	}
	for _, s := range repo.db.studies {
		if s.ProgramID == id {
			return true, nil
		}
	}
	for _, o := range repo.db.offers {
		if o.ProgramID == id {
			return true, nil
		}
	}
	return false, nil
}

// Students

func (repo *catalogRepository) CreateStudent(ctx context.Context, s catalog.Student, exec ...core.DBExecutor) (catalog.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.students {
		if existing.StudentNo == s.StudentNo {
			return catalog.Student{}, core.NewDuplicateKeyError("student")
		}
	}
	s.ID = repo.db.pk()
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *catalogRepository) GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return *s, nil
	}
	return catalog.Student{}, core.NewNotFoundError("student")
}

func (repo *catalogRepository) QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]catalog.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentNo < students[j].StudentNo })
	return students, nil
}

func (repo *catalogRepository) UpdateStudent(ctx context.Context, s catalog.Student, exec ...core.DBExecutor) (catalog.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[s.ID]; !ok {
		return catalog.Student{}, core.NewNotFoundError("student")
	}
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *catalogRepository) DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.students, id)
	return nil
}

func (repo *catalogRepository) DeleteStudentAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.studies = filterStudies(repo.db.studies, func(s academics.Study) bool { return s.StudentID != id })
	repo.db.enrollments = filterEnrollments(repo.db.enrollments, func(e academics.Enrollment) bool { return e.StudentID != id })
	repo.db.takes = filterTakes(repo.db.takes, func(t assessment.Take) bool { return t.StudentID != id })
	repo.db.answers = filterAnswers(repo.db.answers, func(a assessment.Answer) bool { return a.StudentID != id })
	return nil
}

// Courses

func (repo *catalogRepository) CreateCourse(ctx context.Context, c catalog.Course, exec ...core.DBExecutor) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.courses {
		if existing.Code == c.Code {
			return catalog.Course{}, core.NewDuplicateKeyError("course")
		}
	}
	c.ID = repo.db.pk()
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *catalogRepository) GetCourseByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return catalog.Course{}, core.NewNotFoundError("course")
}

func (repo *catalogRepository) QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	courses := make([]catalog.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (repo *catalogRepository) UpdateCourse(ctx context.Context, c catalog.Course, exec ...core.DBExecutor) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[c.ID]; !ok {
		return catalog.Course{}, core.NewNotFoundError("course")
	}
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *catalogRepository) DeleteCourse(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.courses, id)
	return nil
}

func (repo *catalogRepository) DeleteCourseAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.enrollments = filterEnrollments(repo.db.enrollments, func(e academics.Enrollment) bool { return e.CourseID != id })
	repo.db.offers = filterOffers(repo.db.offers, func(o academics.Offer) bool { return o.CourseID != id })
	repo.db.teaches = filterTeaches(repo.db.teaches, func(t academics.Teach) bool { return t.CourseID != id })
	repo.db.courseLessons = filterCourseLessons(repo.db.courseLessons, func(cl academics.CourseLesson) bool { return cl.CourseID != id })
	return nil
}

// Lessons

func (repo *catalogRepository) CreateLesson(ctx context.Context, l catalog.Lesson, exec ...core.DBExecutor) (catalog.Lesson, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	l.ID = repo.db.pk()
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *catalogRepository) GetLessonByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if l, ok := repo.db.lessons[id]; ok {
		return *l, nil
	}
	return catalog.Lesson{}, core.NewNotFoundError("lesson")
}

func (repo *catalogRepository) QueryLessons(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	lessons := make([]catalog.Lesson, 0, len(repo.db.lessons))
	for _, l := range repo.db.lessons {
		lessons = append(lessons, *l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Title < lessons[j].Title })
	return lessons, nil
}

func (repo *catalogRepository) UpdateLesson(ctx context.Context, l catalog.Lesson, exec ...core.DBExecutor) (catalog.Lesson, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.lessons[l.ID]; !ok {
		return catalog.Lesson{}, core.NewNotFoundError("lesson")
	}
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *catalogRepository) DeleteLesson(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.lessons, id)
	return nil
}

func (repo *catalogRepository) DeleteLessonAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.courseLessons = filterCourseLessons(repo.db.courseLessons, func(cl academics.CourseLesson) bool { return cl.LessonID != id })
	repo.db.lessonTests = filterLessonTests(repo.db.lessonTests, func(lt academics.LessonTest) bool { return lt.LessonID != id })
	repo.db.lessonItems = filterLessonItems(repo.db.lessonItems, func(li academics.LessonItem) bool { return li.LessonID != id })
	return nil
}

// Instructors

func (repo *catalogRepository) CreateInstructor(ctx context.Context, i catalog.Instructor, exec ...core.DBExecutor) (catalog.Instructor, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i.ID = repo.db.pk()
	repo.db.instructors[i.ID] = &i
	return i, nil
}

func (repo *catalogRepository) GetInstructorByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Instructor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if i, ok := repo.db.instructors[id]; ok {
		return *i, nil
	}
	return catalog.Instructor{}, core.NewNotFoundError("instructor")
}

func (repo *catalogRepository) QueryInstructors(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Instructor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	instructors := make([]catalog.Instructor, 0, len(repo.db.instructors))
	for _, i := range repo.db.instructors {
		instructors = append(instructors, *i)
	}
	sort.Slice(instructors, func(i, j int) bool { return instructors[i].Name < instructors[j].Name })
	return instructors, nil
}

func (repo *catalogRepository) UpdateInstructor(ctx context.Context, i catalog.Instructor, exec ...core.DBExecutor) (catalog.Instructor, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.instructors[i.ID]; !ok {
		return catalog.Instructor{}, core.NewNotFoundError("instructor")
	}
	repo.db.instructors[i.ID] = &i
	return i, nil
}

func (repo *catalogRepository) DeleteInstructor(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.instructors, id)
	return nil
}

func (repo *catalogRepository) DeleteInstructorAssociations(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.teaches = filterTeaches(repo.db.teaches, func(t academics.Teach) bool { return t.InstructorID != id })
	return nil
}

func (repo *catalogRepository) InstructorHasAuthorships(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, a := range repo.db.authorships {
		if a.InstructorID == id {
			return true, nil
		}
	}
	for _, c := range repo.db.constructs {
		if c.InstructorID == id {
			return true, nil
		}
	}
	return false, nil
}

// slice filters; callers hold the DB lock

func filterStudies(in []academics.Study, keep func(academics.Study) bool) []academics.Study {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterEnrollments(in []academics.Enrollment, keep func(academics.Enrollment) bool) []academics.Enrollment {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterOffers(in []academics.Offer, keep func(academics.Offer) bool) []academics.Offer {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterTeaches(in []academics.Teach, keep func(academics.Teach) bool) []academics.Teach {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterCourseLessons(in []academics.CourseLesson, keep func(academics.CourseLesson) bool) []academics.CourseLesson {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterLessonTests(in []academics.LessonTest, keep func(academics.LessonTest) bool) []academics.LessonTest {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterLessonItems(in []academics.LessonItem, keep func(academics.LessonItem) bool) []academics.LessonItem {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterTakes(in []assessment.Take, keep func(assessment.Take) bool) []assessment.Take {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterAnswers(in []assessment.Answer, keep func(assessment.Answer) bool) []assessment.Answer {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
