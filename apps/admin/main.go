package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/sauti/core"
	"github.com/trezcool/sauti/core/feedback"
	logsvc "github.com/trezcool/sauti/services/logger"
	"github.com/trezcool/sauti/storage"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up storage
	repo, db, err := storage.Open(conf, logger)
	if err != nil {
		logger.Fatal("setting up storage", err)
	}

	// start CLI
	cli := commandLine{
		conf:        conf,
		logger:      logger,
		feedbackSvc: feedback.NewService(repo, core.NewValidate(core.NewTranslator())),
		out:         os.Stdout,
		in:          os.Stdin,
	}
	if db != nil {
		cli.store = db
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
