package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
)

type adminApi struct {
	catalogSvc    catalog.Service
	academicsSvc  academics.Service
	assessmentSvc assessment.Service
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := adminApi{
		catalogSvc:    opts.CatalogSvc,
		academicsSvc:  opts.AcademicsSvc,
		assessmentSvc: opts.AssessmentSvc,
	}

	ag := g.Group("/admin", jwt, adminMiddleware())

	pg := ag.Group("/programs")
	pg.POST("", api.createProgram)
	pg.GET("", api.queryPrograms)
	pg.GET("/:id", api.retrieveProgram)
	pg.PUT("/:id", api.updateProgram)
	pg.DELETE("/:id", api.destroyProgram)

	sg := ag.Group("/students")
	sg.POST("", api.createStudent)
	sg.GET("", api.queryStudents)
	sg.GET("/:id", api.retrieveStudent)
	sg.GET("/:id/enrollments", api.studentEnrollments)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.destroyStudent)

	cg := ag.Group("/courses")
	cg.POST("", api.createCourse)
	cg.GET("", api.queryCourses)
	cg.GET("/:id", api.retrieveCourse)
	cg.PUT("/:id", api.updateCourse)
	cg.DELETE("/:id", api.destroyCourse)

	lg := ag.Group("/lessons")
	lg.POST("", api.createLesson)
	lg.GET("", api.queryLessons)
	lg.GET("/:id", api.retrieveLesson)
	lg.PUT("/:id", api.updateLesson)
	lg.DELETE("/:id", api.destroyLesson)

	ig := ag.Group("/instructors")
	ig.POST("", api.createInstructor)
	ig.GET("", api.queryInstructors)
	ig.GET("/:id", api.retrieveInstructor)
	ig.PUT("/:id", api.updateInstructor)
	ig.DELETE("/:id", api.destroyInstructor)

	// association facts
	ag.POST("/studies", api.recordStudy)
	ag.POST("/enrollments", api.recordEnrollment)
	ag.POST("/offers", api.recordOffer)
	ag.POST("/teaches", api.assignTeach)
	ag.POST("/course-lessons", api.linkCourseLesson)
	ag.POST("/lesson-tests", api.linkLessonTest)
	ag.POST("/lesson-items", api.linkLessonItem)

	ag.GET("/assessments", api.queryAssessments)
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// Programs

func (api *adminApi) createProgram(ctx echo.Context) error {
	var data catalog.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	program, err := api.catalogSvc.CreateProgram(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, program)
}

func (api *adminApi) queryPrograms(ctx echo.Context) error {
	programs, err := api.catalogSvc.QueryPrograms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	if programs == nil {
		programs = []catalog.Program{}
	}
	return ctx.JSON(http.StatusOK, programs)
}

func (api *adminApi) retrieveProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	program, err := api.catalogSvc.GetProgram(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, program)
}

func (api *adminApi) updateProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data catalog.UpdateProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProgram")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	program, err := api.catalogSvc.UpdateProgram(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, program)
}

func (api *adminApi) destroyProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.catalogSvc.DeleteProgram(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *adminApi) createStudent(ctx echo.Context) error {
	var data catalog.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	student, err := api.catalogSvc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, student)
}

func (api *adminApi) queryStudents(ctx echo.Context) error {
	students, err := api.catalogSvc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []catalog.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *adminApi) retrieveStudent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	student, err := api.catalogSvc.GetStudent(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student)
}

func (api *adminApi) studentEnrollments(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	enrollments, err := api.academicsSvc.StudentEnrollments(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *adminApi) updateStudent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data catalog.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	student, err := api.catalogSvc.UpdateStudent(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student)
}

func (api *adminApi) destroyStudent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.catalogSvc.DeleteStudent(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Courses

func (api *adminApi) createCourse(ctx echo.Context) error {
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	course, err := api.catalogSvc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *adminApi) queryCourses(ctx echo.Context) error {
	courses, err := api.catalogSvc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *adminApi) retrieveCourse(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	course, err := api.catalogSvc.GetCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *adminApi) updateCourse(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data catalog.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	course, err := api.catalogSvc.UpdateCourse(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *adminApi) destroyCourse(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.catalogSvc.DeleteCourse(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Lessons

func (api *adminApi) createLesson(ctx echo.Context) error {
	var data catalog.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	lesson, err := api.catalogSvc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lesson)
}

func (api *adminApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.catalogSvc.QueryLessons(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []catalog.Lesson{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *adminApi) retrieveLesson(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	lesson, err := api.catalogSvc.GetLesson(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lesson)
}

func (api *adminApi) updateLesson(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data catalog.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	lesson, err := api.catalogSvc.UpdateLesson(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lesson)
}

func (api *adminApi) destroyLesson(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.catalogSvc.DeleteLesson(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Instructors

func (api *adminApi) createInstructor(ctx echo.Context) error {
	var data catalog.NewInstructor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInstructor")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	instructor, err := api.catalogSvc.CreateInstructor(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, instructor)
}

func (api *adminApi) queryInstructors(ctx echo.Context) error {
	instructors, err := api.catalogSvc.QueryInstructors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying instructors")
	}
	if instructors == nil {
		instructors = []catalog.Instructor{}
	}
	return ctx.JSON(http.StatusOK, instructors)
}

func (api *adminApi) retrieveInstructor(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	instructor, err := api.catalogSvc.GetInstructor(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, instructor)
}

func (api *adminApi) updateInstructor(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data catalog.UpdateInstructor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateInstructor")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	instructor, err := api.catalogSvc.UpdateInstructor(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, instructor)
}

func (api *adminApi) destroyInstructor(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.catalogSvc.DeleteInstructor(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Association facts

func (api *adminApi) recordStudy(ctx echo.Context) error {
	var data academics.Study
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Study")
	}
	if err := api.academicsSvc.RecordStudy(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) recordEnrollment(ctx echo.Context) error {
	var data academics.Enrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Enrollment")
	}
	if err := api.academicsSvc.RecordEnrollment(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) recordOffer(ctx echo.Context) error {
	var data academics.Offer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Offer")
	}
	if err := api.academicsSvc.RecordOffer(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) assignTeach(ctx echo.Context) error {
	var data academics.Teach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Teach")
	}
	if err := api.academicsSvc.AssignTeach(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) linkCourseLesson(ctx echo.Context) error {
	var data academics.CourseLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseLesson")
	}
	if err := api.academicsSvc.LinkCourseLesson(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) linkLessonTest(ctx echo.Context) error {
	var data academics.LessonTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonTest")
	}
	if err := api.academicsSvc.LinkLessonTest(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) linkLessonItem(ctx echo.Context) error {
	var data academics.LessonItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonItem")
	}
	if err := api.academicsSvc.LinkLessonItem(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

func (api *adminApi) queryAssessments(ctx echo.Context) error {
	assessments, err := api.assessmentSvc.QueryAssessments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assessments")
	}
	if assessments == nil {
		assessments = []assessment.Assessment{}
	}
	return ctx.JSON(http.StatusOK, assessments)
}
