package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
)

type instructorApi struct {
	academicsSvc  academics.Service
	assessmentSvc assessment.Service
}

func registerInstructorAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := instructorApi{
		academicsSvc:  opts.AcademicsSvc,
		assessmentSvc: opts.AssessmentSvc,
	}

	ig := g.Group("/instructor", jwt, instructorMiddleware())

	ig.GET("/courses", api.queryCourses)

	tg := ig.Group("/tests")
	tg.POST("", api.createTest)
	tg.GET("", api.queryTests)
	tg.GET("/:id", api.retrieveTest)
	tg.PUT("/:id", api.updateTest)
	tg.DELETE("/:id", api.destroyTest)
	tg.GET("/:id/items", api.queryTestItems)
	tg.POST("/:id/items", api.addTestItem)
	tg.DELETE("/:id/items/:itemID", api.destroyTestItem)
	tg.GET("/:id/results", api.testResults)

	mg := ig.Group("/items")
	mg.PUT("/:id", api.updateTestItem)
	mg.POST("/:id/publish", api.publishTestItem)
}

// contextInstructorID resolves the catalog instructor the token belongs to.
func contextInstructorID(ctx echo.Context) (int, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "getting context claims")
	}
	if claims.InstructorID == nil {
		return 0, errHttpForbidden
	}
	return *claims.InstructorID, nil
}

func (api *instructorApi) queryCourses(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	courses, err := api.academicsSvc.InstructorCourses(ctx.Request().Context(), instructorID)
	if err != nil {
		return errors.Wrap(err, "querying instructor courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *instructorApi) createTest(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	var data NewTestRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTestRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	test, err := api.assessmentSvc.CreateTest(
		ctx.Request().Context(), instructorID, assessment.NewTest{Date: data.Date}, data.Term, data.SchoolYear,
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, test)
}

func (api *instructorApi) queryTests(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	tests, err := api.assessmentSvc.InstructorTests(ctx.Request().Context(), instructorID)
	if err != nil {
		return errors.Wrap(err, "querying instructor tests")
	}
	if tests == nil {
		tests = []assessment.Test{}
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *instructorApi) retrieveTest(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	test, err := api.assessmentSvc.GetTest(ctx.Request().Context(), instructorID, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, test)
}

func (api *instructorApi) updateTest(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data assessment.UpdateTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTest")
	}
	test, err := api.assessmentSvc.UpdateTest(ctx.Request().Context(), instructorID, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, test)
}

func (api *instructorApi) destroyTest(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.assessmentSvc.DeleteTest(ctx.Request().Context(), instructorID, id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *instructorApi) queryTestItems(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	items, err := api.assessmentSvc.TestItems(ctx.Request().Context(), instructorID, id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []assessment.TestItem{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *instructorApi) addTestItem(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data NewItemRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItemRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	item, err := api.assessmentSvc.AddItem(
		ctx.Request().Context(), instructorID, id,
		assessment.NewItem{Question: data.Question, Answer: data.Answer},
		data.Term, data.SchoolYear,
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *instructorApi) updateTestItem(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data assessment.UpdateItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	item, err := api.assessmentSvc.UpdateItem(ctx.Request().Context(), instructorID, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *instructorApi) publishTestItem(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	item, err := api.assessmentSvc.PublishItem(ctx.Request().Context(), instructorID, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *instructorApi) destroyTestItem(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	testID, err := pathID(ctx)
	if err != nil {
		return err
	}
	itemID, err := strconv.Atoi(ctx.Param("itemID"))
	if err != nil {
		return errHttpNotFound
	}
	if err := api.assessmentSvc.DeleteItem(ctx.Request().Context(), instructorID, testID, itemID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *instructorApi) testResults(ctx echo.Context) error {
	instructorID, err := contextInstructorID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	takes, err := api.assessmentSvc.TestResults(ctx.Request().Context(), instructorID, id)
	if err != nil {
		return err
	}
	if takes == nil {
		takes = []assessment.Take{}
	}
	return ctx.JSON(http.StatusOK, takes)
}

type (
	NewTestRequest struct {
		Date       time.Time `json:"date" validate:"required"`
		Term       string    `json:"term" validate:"required"`
		SchoolYear string    `json:"sy" validate:"required"`
	}

	NewItemRequest struct {
		Question   string `json:"question" validate:"required"`
		Answer     string `json:"answer" validate:"required"`
		Term       string `json:"term" validate:"required"`
		SchoolYear string `json:"sy" validate:"required"`
	}
)

func (r *NewTestRequest) Validate() error {
	r.Term = core.CleanString(r.Term)
	r.SchoolYear = core.CleanString(r.SchoolYear)
	return core.Validate.Struct(r)
}

func (r *NewItemRequest) Validate() error {
	r.Question = core.CleanString(r.Question)
	r.Answer = core.CleanString(r.Answer)
	r.Term = core.CleanString(r.Term)
	r.SchoolYear = core.CleanString(r.SchoolYear)
	return core.Validate.Struct(r)
}
