package academics

import (
	"context"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/catalog"
)

type (
	// Repository persists association facts. Implementations map duplicate
	// composite keys to core.DuplicateKeyError and dangling entity references
	// to core.ReferentialError.
	Repository interface {
		CreateStudy(ctx context.Context, s Study, exec ...core.DBExecutor) error
		CreateEnrollment(ctx context.Context, e Enrollment, exec ...core.DBExecutor) error
		CreateOffer(ctx context.Context, o Offer, exec ...core.DBExecutor) error
		CreateTeach(ctx context.Context, t Teach, exec ...core.DBExecutor) error
		CreateCourseLesson(ctx context.Context, cl CourseLesson, exec ...core.DBExecutor) error
		CreateLessonTest(ctx context.Context, lt LessonTest, exec ...core.DBExecutor) error
		CreateLessonItem(ctx context.Context, li LessonItem, exec ...core.DBExecutor) error
		GetStudentEnrollments(ctx context.Context, studentID int, exec ...core.DBExecutor) (StudentEnrollments, error)
		QueryCoursesByInstructor(ctx context.Context, instructorID int, exec ...core.DBExecutor) ([]catalog.Course, error)
	}

	Service interface {
		RecordStudy(ctx context.Context, s Study) error
		RecordEnrollment(ctx context.Context, e Enrollment) error
		RecordOffer(ctx context.Context, o Offer) error
		AssignTeach(ctx context.Context, t Teach) error
		LinkCourseLesson(ctx context.Context, cl CourseLesson) error
		LinkLessonTest(ctx context.Context, lt LessonTest) error
		LinkLessonItem(ctx context.Context, li LessonItem) error
		StudentEnrollments(ctx context.Context, studentID int) (StudentEnrollments, error)
		InstructorCourses(ctx context.Context, instructorID int) ([]catalog.Course, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) RecordStudy(ctx context.Context, s Study) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateStudy(ctx, s)
}

func (svc *service) RecordEnrollment(ctx context.Context, e Enrollment) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateEnrollment(ctx, e)
}

func (svc *service) RecordOffer(ctx context.Context, o Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateOffer(ctx, o)
}

func (svc *service) AssignTeach(ctx context.Context, t Teach) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateTeach(ctx, t)
}

func (svc *service) LinkCourseLesson(ctx context.Context, cl CourseLesson) error {
	if err := cl.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateCourseLesson(ctx, cl)
}

func (svc *service) LinkLessonTest(ctx context.Context, lt LessonTest) error {
	if err := lt.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateLessonTest(ctx, lt)
}

func (svc *service) LinkLessonItem(ctx context.Context, li LessonItem) error {
	if err := li.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateLessonItem(ctx, li)
}

func (svc *service) StudentEnrollments(ctx context.Context, studentID int) (StudentEnrollments, error) {
	return svc.repo.GetStudentEnrollments(ctx, studentID)
}

func (svc *service) InstructorCourses(ctx context.Context, instructorID int) ([]catalog.Course, error) {
	return svc.repo.QueryCoursesByInstructor(ctx, instructorID)
}
