package testutil

import (
	"bytes"
	"log"
	"testing"

	"github.com/trezcool/sauti/core"
	"github.com/trezcool/sauti/core/feedback"
	logsvc "github.com/trezcool/sauti/services/logger"
)

// NewLogger returns a logger writing to `out` with Rollbar reporting disabled.
func NewLogger(out *bytes.Buffer) core.Logger {
	if out == nil {
		out = new(bytes.Buffer)
	}
	logger := logsvc.NewRollbarLogger(log.New(out, "TEST : ", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger
}

func CreateFeedback(
	t *testing.T,
	repo feedback.Repository,
	teacher, positive, constructive, timestamp string,
) feedback.Feedback {
	fb, err := repo.Create(feedback.Feedback{
		Teacher:      teacher,
		Positive:     positive,
		Constructive: constructive,
		Timestamp:    timestamp,
	})
	if err != nil {
		t.Fatalf("CreateFeedback() failed: %v", err)
	}
	return fb
}
