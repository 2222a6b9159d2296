package storage

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/sauti/core"
	"github.com/trezcool/sauti/core/feedback"
	inmemdb "github.com/trezcool/sauti/storage/inmem"
	jsondb "github.com/trezcool/sauti/storage/jsonfile"
)

// Open returns the feedback repository for the configured driver.
// The JSON file DB is returned as well so callers can snapshot it; it is nil for other drivers.
func Open(conf *core.Config, logger core.Logger) (feedback.Repository, *jsondb.DB, error) {
	switch conf.Storage.Driver {
	case core.StorageMemory:
		logger.Warn("using in-memory storage, feedback will be lost on exit")
		return inmemdb.NewFeedbackRepository(inmemdb.Open()), nil, nil
	case core.StorageFile, "":
		db, err := jsondb.Open(conf.Storage.FeedbackFile, logger)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening feedback store")
		}
		logger.Info(fmt.Sprintf("using feedback store %s", db.Path()))
		return jsondb.NewFeedbackRepository(db), db, nil
	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
