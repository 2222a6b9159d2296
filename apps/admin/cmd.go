package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/sauti/core"
	"github.com/trezcool/sauti/core/feedback"
	backupsvc "github.com/trezcool/sauti/services/backup"
)

var (
	defaultIsTerminal = term.IsTerminal
	isTerminalFunc    = defaultIsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf        *core.Config
	logger      core.Logger
	feedbackSvc feedback.Service
	store       backupsvc.Store // nil when the storage driver has no file to back up
	out         io.Writer
	in          io.Reader
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  stats [-teacher NAME]            - print feedback analytics per teacher and period")
	fmt.Fprintln(cli.out, "  export [-format json|csv] [-o F] - dump every feedback record")
	fmt.Fprintln(cli.out, "  clear [-yes]                     - delete all feedback")
	fmt.Fprintln(cli.out, "  backup [-dir D] [-keep N]        - snapshot the feedback store now")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return errHelp
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	statsCmd := cli.newFlagSet("stats")
	statsTeacher := statsCmd.String("teacher", "", "Only show this teacher (exact name).")

	exportCmd := cli.newFlagSet("export")
	exportFormat := exportCmd.String("format", formatJSON, "Output format: json or csv.")
	exportOutput := exportCmd.String("o", "", "Write to this file instead of stdout.")

	clearCmd := cli.newFlagSet("clear")
	clearYes := clearCmd.Bool("yes", false, "Do not ask for confirmation.")

	backupCmd := cli.newFlagSet("backup")
	backupDir := backupCmd.String("dir", cli.conf.Storage.BackupDir, "Directory to write the snapshot to.")
	backupKeep := backupCmd.Int("keep", cli.conf.Storage.BackupKeep, "Number of snapshots to keep; 0 keeps all.")

	switch args[1] {
	case "stats":
		if err := cli.parse(statsCmd, args[2:]); err != nil {
			return err
		}
		return cli.stats(core.CleanString(*statsTeacher))
	case "export":
		if err := cli.parse(exportCmd, args[2:]); err != nil {
			return err
		}
		return cli.export(*exportFormat, *exportOutput)
	case "clear":
		if err := cli.parse(clearCmd, args[2:]); err != nil {
			return err
		}
		return cli.clear(*clearYes)
	case "backup":
		if err := cli.parse(backupCmd, args[2:]); err != nil {
			return err
		}
		return cli.backup(*backupDir, *backupKeep)
	default:
		cli.printUsage()
		return errHelp
	}
}

func stdinIsTerminal() bool {
	return isTerminalFunc(int(os.Stdin.Fd()))
}
