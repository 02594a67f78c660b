package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	"github.com/elimu-cd/elimu/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		UserSvc       user.Service
		CatalogSvc    catalog.Service
		AcademicsSvc  academics.Service
		AssessmentSvc assessment.Service

		Logger core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerAdminAPI(v1, jwt, s.opts)
	registerInstructorAPI(v1, jwt, s.opts)
	registerStudentAPI(v1, jwt, s.opts)
}

func (s *server) signalShutdown() {
	s.shutdown <- struct{}{}
}

func (s *server) Start() {
	go func() {
		<-s.shutdown
		s.app.Logger.Error("integrity issue detected, shutting down")
		_ = s.Stop(context.Background())
	}()
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Elimu API!")
}
