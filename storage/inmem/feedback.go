package inmemdb

import (
	"github.com/trezcool/sauti/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) query(filter feedback.QueryFilter) []feedback.Feedback {
	fbs := make([]feedback.Feedback, 0, len(repo.db.rows))
	for _, fb := range repo.db.rows {
		if filter.Match(fb) {
			fbs = append(fbs, fb)
		}
	}
	return fbs
}

func (repo *feedbackRepository) QueryAll() ([]feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(feedback.QueryFilter{}), nil
}

func (repo *feedbackRepository) Filter(filter feedback.QueryFilter) ([]feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(filter), nil
}

func (repo *feedbackRepository) Create(fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	fb.ID = feedback.NextID(repo.db.rows)
	repo.db.rows = append(repo.db.rows, fb)
	return fb, nil
}

func (repo *feedbackRepository) DeleteByID(id int64) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, fb := range repo.db.rows {
		if fb.ID == id {
			repo.db.rows = append(repo.db.rows[:i:i], repo.db.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (repo *feedbackRepository) DeleteAll() error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = make([]feedback.Feedback, 0)
	return nil
}
