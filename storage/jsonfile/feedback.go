package jsondb

import (
	"github.com/trezcool/sauti/core/feedback"
)

type feedbackRepository struct {
	db *DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) QueryAll() ([]feedback.Feedback, error) {
	var res []feedback.Feedback
	err := repo.db.View(func(fbs []feedback.Feedback) error {
		res = fbs
		return nil
	})
	return res, err
}

func (repo *feedbackRepository) Filter(filter feedback.QueryFilter) ([]feedback.Feedback, error) {
	res := make([]feedback.Feedback, 0)
	err := repo.db.View(func(fbs []feedback.Feedback) error {
		for _, fb := range fbs {
			if filter.Match(fb) {
				res = append(res, fb)
			}
		}
		return nil
	})
	return res, err
}

func (repo *feedbackRepository) Create(fb feedback.Feedback) (feedback.Feedback, error) {
	err := repo.db.Update(func(fbs []feedback.Feedback) ([]feedback.Feedback, error) {
		fb.ID = feedback.NextID(fbs)
		return append(fbs, fb), nil
	})
	if err != nil {
		return feedback.Feedback{}, err
	}
	return fb, nil
}

func (repo *feedbackRepository) DeleteByID(id int64) (bool, error) {
	var found bool
	err := repo.db.Update(func(fbs []feedback.Feedback) ([]feedback.Feedback, error) {
		kept := fbs[:0]
		for _, fb := range fbs {
			if fb.ID == id {
				found = true
				continue
			}
			kept = append(kept, fb)
		}
		return kept, nil
	})
	return found, err
}

func (repo *feedbackRepository) DeleteAll() error {
	return repo.db.Update(func([]feedback.Feedback) ([]feedback.Feedback, error) {
		return []feedback.Feedback{}, nil
	})
}
