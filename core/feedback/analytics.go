package feedback

import (
	"math"
	"time"
)

// Period is a recurring two-month slice of the school year.
type Period struct {
	Name   string
	Months [2]time.Month
}

// Periods lists the school year in display order.
var Periods = [...]Period{
	{Name: "Aug-Sep", Months: [2]time.Month{time.August, time.September}},
	{Name: "Oct-Nov", Months: [2]time.Month{time.October, time.November}},
	{Name: "Dec-Jan", Months: [2]time.Month{time.December, time.January}},
	{Name: "Feb-Mar", Months: [2]time.Month{time.February, time.March}},
	{Name: "Apr-May", Months: [2]time.Month{time.April, time.May}},
	{Name: "Jun-Jul", Months: [2]time.Month{time.June, time.July}},
}

// monthPeriod maps a month to its index in Periods.
var monthPeriod = func() map[time.Month]int {
	m := make(map[time.Month]int, 12)
	for i, p := range Periods {
		for _, month := range p.Months {
			m[month] = i
		}
	}
	return m
}()

// PeriodOf returns the index in Periods of the period `t` falls in.
func PeriodOf(t time.Time) int {
	return monthPeriod[t.Month()]
}

type PeriodSummary struct {
	Period           string  `json:"period"`
	Total            int     `json:"total"`
	PositiveOnly     int     `json:"positiveOnly"`
	WithConstructive int     `json:"withConstructive"`
	Ratio            float64 `json:"ratio"` // % of positive-only feedback, 1 decimal
}

type Analytics struct {
	Teachers      []string                   `json:"teachers"` // first-appearance order
	Analytics     map[string][]PeriodSummary `json:"analytics"`
	TotalFeedback int                        `json:"totalFeedback"`
}

// Aggregate computes per teacher, per period statistics over `records`.
// Records whose timestamp cannot be parsed are left out of every period
// but still count towards TotalFeedback.
func Aggregate(records []Feedback) Analytics {
	res := Analytics{
		Teachers:      []string{},
		Analytics:     make(map[string][]PeriodSummary),
		TotalFeedback: len(records),
	}

	for _, f := range records {
		summaries, ok := res.Analytics[f.Teacher]
		if !ok {
			summaries = emptySummaries()
			res.Analytics[f.Teacher] = summaries
			res.Teachers = append(res.Teachers, f.Teacher)
		}

		t, ok := f.Time()
		if !ok {
			continue
		}
		s := &summaries[PeriodOf(t)]
		s.Total++
		if f.HasConstructive() {
			s.WithConstructive++
		}
	}

	for _, summaries := range res.Analytics {
		for i := range summaries {
			s := &summaries[i]
			s.PositiveOnly = s.Total - s.WithConstructive
			s.Ratio = ratio(s.PositiveOnly, s.Total, 1)
		}
	}
	return res
}

// Stats summarizes all of `records` regardless of period.
func Stats(teacher string, records []Feedback) TeacherStats {
	st := TeacherStats{Teacher: teacher, Total: len(records)}
	for _, f := range records {
		if f.HasConstructive() {
			st.WithConstructive++
		}
	}
	st.PositiveOnly = st.Total - st.WithConstructive
	st.Ratio = int(ratio(st.PositiveOnly, st.Total, 0))
	return st
}

func emptySummaries() []PeriodSummary {
	summaries := make([]PeriodSummary, len(Periods))
	for i, p := range Periods {
		summaries[i].Period = p.Name
	}
	return summaries
}

// ratio returns part/total as a percentage rounded to `decimals`; 0 when total is 0.
func ratio(part, total, decimals int) float64 {
	if total == 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(part)/float64(total)*100*scale) / scale
}
