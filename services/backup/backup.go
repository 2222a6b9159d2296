package backupsvc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/sauti/core"
)

// Store is a feedback store that can be copied aside.
type Store interface {
	Snapshot(dir string) (string, error)
	Prune(dir string, keep int) ([]string, error)
}

// Service snapshots the feedback store into a backup directory, either on
// demand or on a cron schedule, keeping only the most recent snapshots.
type Service struct {
	store    Store
	dir      string
	keep     int
	schedule string
	logger   core.Logger
	cron     *cron.Cron
}

func NewService(store Store, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		store:    store,
		dir:      conf.Storage.BackupDir,
		keep:     conf.Storage.BackupKeep,
		schedule: conf.Storage.BackupSchedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Run takes one snapshot then prunes the old ones.
// It returns the new snapshot's path and the removed ones.
func (s *Service) Run() (string, []string, error) {
	path, err := s.store.Snapshot(s.dir)
	if err != nil {
		return "", nil, errors.Wrap(err, "taking snapshot")
	}
	if s.keep <= 0 {
		return path, nil, nil // keep everything
	}
	removed, err := s.store.Prune(s.dir, s.keep)
	if err != nil {
		return path, removed, errors.Wrap(err, "pruning snapshots")
	}
	return path, removed, nil
}

// Start schedules Run. It does nothing when no schedule is configured.
func (s *Service) Start() error {
	if s.schedule == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.job); err != nil {
		return errors.Wrapf(err, "scheduling backups %q", s.schedule)
	}
	s.cron.Start()
	s.logger.Info(fmt.Sprintf("Backups scheduled : %q into %q", s.schedule, s.dir))
	return nil
}

// Stop stops the scheduler. The returned context is done once a running backup completes.
func (s *Service) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Service) job() {
	path, removed, err := s.Run()
	if err != nil {
		s.logger.Error(fmt.Sprintf("backup failed: %v", err), err)
		return
	}
	s.logger.Info(fmt.Sprintf("backup written to %s (%d pruned)", path, len(removed)))
}
