package inmemdb

import (
	"sync"

	"github.com/trezcool/sauti/core/feedback"
)

type (
	DB struct {
		feedback *feedbackTable
	}

	feedbackTable struct {
		sync.RWMutex
		rows []feedback.Feedback // insertion order
	}
)

func Open() *DB {
	return &DB{
		feedback: &feedbackTable{rows: make([]feedback.Feedback, 0)},
	}
}
