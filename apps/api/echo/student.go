package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
)

type studentApi struct {
	academicsSvc  academics.Service
	assessmentSvc assessment.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentApi{
		academicsSvc:  opts.AcademicsSvc,
		assessmentSvc: opts.AssessmentSvc,
	}

	sg := g.Group("/student", jwt, studentMiddleware())
	sg.GET("/enrollments", api.enrollments)
	sg.POST("/takes", api.recordTake)
	sg.POST("/answers", api.recordAnswer)
}

// contextStudentID resolves the catalog student the token belongs to.
func contextStudentID(ctx echo.Context) (int, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "getting context claims")
	}
	if claims.StudentID == nil {
		return 0, errHttpForbidden
	}
	return *claims.StudentID, nil
}

func (api *studentApi) enrollments(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	enrollments, err := api.academicsSvc.StudentEnrollments(ctx.Request().Context(), studentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *studentApi) recordTake(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	var data TakeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TakeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	take := assessment.Take{
		StudentID:  studentID,
		TestID:     data.TestID,
		Term:       data.Term,
		SchoolYear: data.SchoolYear,
	}
	if err := api.assessmentSvc.RecordTake(ctx.Request().Context(), take); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, take)
}

func (api *studentApi) recordAnswer(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	var data AnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	answer := assessment.Answer{
		StudentID:  studentID,
		TestItemID: data.TestItemID,
		Term:       data.Term,
		SchoolYear: data.SchoolYear,
		Response:   data.Response,
	}
	if err := api.assessmentSvc.RecordAnswer(ctx.Request().Context(), answer); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, answer)
}

type (
	TakeRequest struct {
		TestID     int    `json:"test_id" validate:"required"`
		Term       string `json:"term" validate:"required"`
		SchoolYear string `json:"sy" validate:"required"`
	}

	AnswerRequest struct {
		TestItemID int    `json:"test_item_id" validate:"required"`
		Term       string `json:"term" validate:"required"`
		SchoolYear string `json:"sy" validate:"required"`
		Response   string `json:"answer" validate:"required"`
	}
)

func (r *TakeRequest) Validate() error {
	r.Term = core.CleanString(r.Term)
	r.SchoolYear = core.CleanString(r.SchoolYear)
	return core.Validate.Struct(r)
}

func (r *AnswerRequest) Validate() error {
	r.Term = core.CleanString(r.Term)
	r.SchoolYear = core.CleanString(r.SchoolYear)
	r.Response = core.CleanString(r.Response)
	return core.Validate.Struct(r)
}
