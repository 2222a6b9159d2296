package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var errNotConfirmed = errors.New("refusing to clear feedback without confirmation (use -yes)")

func (cli *commandLine) clear(yes bool) error {
	fbs, err := cli.feedbackSvc.QueryAll()
	if err != nil {
		return err
	}
	if len(fbs) == 0 {
		fmt.Fprintln(cli.out, "Nothing to clear.")
		return nil
	}

	if !yes {
		if !stdinIsTerminal() {
			return errNotConfirmed
		}
		fmt.Fprintf(cli.out, "Delete all %d feedback records? [y/N]: ", len(fbs))
		answer, err := bufio.NewReader(cli.in).ReadString('\n')
		if err != nil && answer == "" {
			return errNotConfirmed
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cli.out, "Aborted.")
			return nil
		}
	}

	if err = cli.feedbackSvc.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted %d feedback records.\n", len(fbs))
	return nil
}
