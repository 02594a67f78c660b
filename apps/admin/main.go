package main

import (
	"log"
	"os"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/storage/database"
	sqlxrepos "github.com/elimu-cd/elimu/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	sqlDB, err := database.Open(core.Conf)
	errAndDie(err)
	defer func() { _ = sqlDB.Close() }()
	db := database.NewDB(sqlDB, core.Conf)

	// start CLI
	cli := commandLine{
		db:      sqlDB,
		usrRepo: sqlxrepos.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
