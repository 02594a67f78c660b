package main

import (
	"log"
	"os"

	echoapi "github.com/elimu-cd/elimu/apps/api/echo"
	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	"github.com/elimu-cd/elimu/core/user"
	emailsvc "github.com/elimu-cd/elimu/services/email"
	logsvc "github.com/elimu-cd/elimu/services/logger"
	"github.com/elimu-cd/elimu/storage/database"
	sqlxrepos "github.com/elimu-cd/elimu/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!(core.Conf.Debug || core.Conf.TestMode))

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		logger.Fatal("creating database", err)
	}
	sqlDB, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = sqlDB.Close() }()
	if err = database.Migrate(sqlDB); err != nil {
		logger.Fatal("migrating database", err)
	}
	db := database.NewDB(sqlDB, core.Conf)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	catalogSvc := catalog.NewService(db, sqlxrepos.NewCatalogRepository(db))
	academicsSvc := academics.NewService(sqlxrepos.NewAcademicsRepository(db))
	assessmentSvc := assessment.NewService(db, sqlxrepos.NewAssessmentRepository(db))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:          core.Conf.Server.Address(),
			UserSvc:       usrSvc,
			CatalogSvc:    catalogSvc,
			AcademicsSvc:  academicsSvc,
			AssessmentSvc: assessmentSvc,
			Logger:        logger,
		},
	)
	app.Start()
}
