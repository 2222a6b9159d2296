package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/sauti/core/feedback"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

var csvHeader = []string{"id", "teacher", "positive", "constructive", "timestamp"}

func (cli *commandLine) export(format, output string) error {
	if format != formatJSON && format != formatCSV {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatCSV)
	}

	fbs, err := cli.feedbackSvc.QueryAll()
	if err != nil {
		return err
	}

	out := cli.out
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrap(err, "creating export file")
		}
		defer f.Close()
		out = f
	}

	if format == formatCSV {
		err = writeCSV(out, fbs)
	} else {
		err = writeJSON(out, fbs)
	}
	if err != nil {
		return errors.Wrap(err, "exporting feedback")
	}

	if output != "" {
		fmt.Fprintf(cli.out, "Exported %d records to %s\n", len(fbs), output)
	}
	return nil
}

func writeJSON(w io.Writer, fbs []feedback.Feedback) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(fbs)
}

func writeCSV(w io.Writer, fbs []feedback.Feedback) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, fb := range fbs {
		record := []string{strconv.FormatInt(fb.ID, 10), fb.Teacher, fb.Positive, fb.Constructive, fb.Timestamp}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
