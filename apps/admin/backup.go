package main

import (
	"errors"
	"fmt"

	backupsvc "github.com/trezcool/sauti/services/backup"
)

var errNoBackups = errors.New("the configured storage driver does not support backups")

func (cli *commandLine) backup(dir string, keep int) error {
	if cli.store == nil {
		return errNoBackups
	}

	conf := *cli.conf
	conf.Storage.BackupDir = dir
	conf.Storage.BackupKeep = keep

	path, removed, err := backupsvc.NewService(cli.store, &conf, cli.logger).Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Snapshot written to %s\n", path)
	for _, p := range removed {
		fmt.Fprintf(cli.out, "Removed old snapshot %s\n", p)
	}
	return nil
}
