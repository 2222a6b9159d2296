package feedback

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var NowFunc = time.Now // mockable

type (
	Repository interface {
		// QueryAll returns every record in storage order.
		QueryAll() ([]Feedback, error)
		// Filter returns the records matching all set QueryFilter fields, in storage order.
		Filter(filter QueryFilter) ([]Feedback, error)
		// Create stores `fb` under a newly generated ID.
		Create(fb Feedback) (Feedback, error)
		// DeleteByID reports whether a record with `id` existed.
		DeleteByID(id int64) (bool, error)
		DeleteAll() error
	}

	Service interface {
		Create(nf NewFeedback) (Feedback, error)
		QueryAll() ([]Feedback, error)
		Filter(filter QueryFilter) ([]Feedback, error)
		Delete(id int64) (bool, error)
		Clear() error
		Teachers() ([]string, error)
		Analytics() (Analytics, error)
		TeacherStats(teacher string) (TeacherStats, error)
	}

	service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate) Service {
	return &service{repo: repo, validate: validate}
}

func (svc *service) Create(nf NewFeedback) (Feedback, error) {
	if err := nf.Validate(svc.validate); err != nil {
		return Feedback{}, err
	}
	if nf.Timestamp == "" {
		nf.Timestamp = NowFunc().UTC().Format(TimestampLayout)
	}
	fb, err := svc.repo.Create(Feedback{
		Teacher:      nf.Teacher,
		Positive:     nf.Positive,
		Constructive: nf.Constructive,
		Timestamp:    nf.Timestamp,
	})
	return fb, errors.Wrap(err, "creating feedback")
}

func (svc *service) QueryAll() ([]Feedback, error) {
	fbs, err := svc.repo.QueryAll()
	return fbs, errors.Wrap(err, "querying feedback")
}

func (svc *service) Filter(filter QueryFilter) ([]Feedback, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.QueryAll()
	}
	fbs, err := svc.repo.Filter(filter)
	return fbs, errors.Wrap(err, "filtering feedback")
}

func (svc *service) Delete(id int64) (bool, error) {
	found, err := svc.repo.DeleteByID(id)
	return found, errors.Wrap(err, "deleting feedback")
}

func (svc *service) Clear() error {
	return errors.Wrap(svc.repo.DeleteAll(), "clearing feedback")
}

// Teachers returns the distinct, non-empty teacher names found in storage, sorted.
func (svc *service) Teachers() ([]string, error) {
	fbs, err := svc.QueryAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	teachers := make([]string, 0)
	for _, fb := range fbs {
		if fb.Teacher == "" {
			continue
		}
		if _, ok := seen[fb.Teacher]; !ok {
			seen[fb.Teacher] = struct{}{}
			teachers = append(teachers, fb.Teacher)
		}
	}
	sort.Strings(teachers)
	return teachers, nil
}

func (svc *service) Analytics() (Analytics, error) {
	fbs, err := svc.QueryAll()
	if err != nil {
		return Analytics{}, err
	}
	return Aggregate(fbs), nil
}

func (svc *service) TeacherStats(teacher string) (TeacherStats, error) {
	fbs, err := svc.repo.Filter(QueryFilter{Teacher: teacher})
	if err != nil {
		return TeacherStats{}, errors.Wrap(err, "filtering feedback")
	}
	return Stats(teacher, fbs), nil
}
