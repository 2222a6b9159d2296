package feedback

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sauti/core"
)

// TimestampLayout is used to stamp submissions that arrive without a timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// accepted timestamp layouts, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// Feedback is one student submission about a teacher. Records are never updated.
type Feedback struct {
	ID           int64  `json:"id"`
	Teacher      string `json:"teacher"`
	Positive     string `json:"positive"`
	Constructive string `json:"constructive"`
	Timestamp    string `json:"timestamp"` // ISO-8601, client supplied
}

// HasConstructive reports whether the record carries constructive feedback.
// Records without it are "positive-only".
func (f Feedback) HasConstructive() bool {
	return !core.IsBlank(f.Constructive)
}

// Time parses the record's timestamp. ok is false when it cannot be parsed.
func (f Feedback) Time() (t time.Time, ok bool) {
	ts := strings.TrimSpace(f.Timestamp)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NewFeedback contains the information needed to submit feedback.
type NewFeedback struct {
	Teacher      string `json:"teacher" validate:"required"`
	Positive     string `json:"positive" validate:"required,notblank"`
	Constructive string `json:"constructive"`
	Timestamp    string `json:"timestamp"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Teacher = core.CleanString(nf.Teacher)
	nf.Positive = core.CleanString(nf.Positive)
	nf.Constructive = core.CleanString(nf.Constructive)
	nf.Timestamp = core.CleanString(nf.Timestamp)
	return validate.Struct(nf)
}

// QueryFilter narrows down a feedback listing. The zero value matches everything.
type QueryFilter struct {
	Teacher string `query:"teacher"` // exact match
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Teacher == ""
}

func (qf *QueryFilter) Clean() {
	qf.Teacher = core.CleanString(qf.Teacher)
}

func (qf *QueryFilter) Match(f Feedback) bool {
	return qf.Teacher == "" || f.Teacher == qf.Teacher
}

// TeacherStats is the all-time summary shown on a teacher's dashboard.
type TeacherStats struct {
	Teacher          string `json:"teacher"`
	Total            int    `json:"total"`
	PositiveOnly     int    `json:"positiveOnly"`
	WithConstructive int    `json:"withConstructive"`
	Ratio            int    `json:"ratio"` // whole percentage of positive-only feedback
}

// NextID returns the current time in Unix milliseconds, bumped past the largest
// ID in `existing` so IDs stay unique and increasing.
func NextID(existing []Feedback) int64 {
	var maxID int64
	for _, fb := range existing {
		if fb.ID > maxID {
			maxID = fb.ID
		}
	}
	id := NowFunc().UnixNano() / int64(time.Millisecond)
	if id <= maxID {
		id = maxID + 1
	}
	return id
}
