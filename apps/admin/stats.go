package main

import (
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) stats(teacher string) error {
	res, err := cli.feedbackSvc.Analytics()
	if err != nil {
		return err
	}

	teachers := res.Teachers
	if teacher != "" {
		if _, ok := res.Analytics[teacher]; !ok {
			return fmt.Errorf("no feedback for teacher %q", teacher)
		}
		teachers = []string{teacher}
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEACHER\tPERIOD\tTOTAL\tPOSITIVE ONLY\tWITH CONSTRUCTIVE\tRATIO\t")
	for _, name := range teachers {
		label := name
		if label == "" {
			label = "(none)"
		}
		for _, s := range res.Analytics[name] {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f%%\t\n",
				label, s.Period, s.Total, s.PositiveOnly, s.WithConstructive, s.Ratio)
		}
		if teacher != "" {
			st, err := cli.feedbackSvc.TeacherStats(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d%%\t\n",
				label, "all time", st.Total, st.PositiveOnly, st.WithConstructive, st.Ratio)
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cli.out, "\nTotal feedback: %d\n", res.TotalFeedback)
	return err
}
