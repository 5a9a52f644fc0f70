package cmd

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"tubefetch/internal/config"
	"tubefetch/internal/history"
	"tubefetch/internal/logger"
	"tubefetch/internal/model"
)

// session bundles what a command needs once configuration is loaded.
type session struct {
	opts model.Options
	log  *zap.Logger
	repo *history.Repository
}

// openSession loads the configuration, builds the file logger and opens the
// history database. Logger and history failures are reported to warn and the
// session continues without them.
func openSession(warn io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	s := &session{opts: cfg.Options()}
	o := s.opts

	s.log, err = logger.New(logger.Config{
		Level:      o.LogLevel,
		Format:     o.LogFormat,
		OutputPath: o.LogPath,
	})
	if err != nil {
		fmt.Fprintf(warn, "warning: logging disabled: %v\n", err)
		s.log = logger.NewNop()
	}

	if o.HistoryEnabled {
		repo, err := history.Open(o.HistoryPath)
		if err != nil {
			s.log.Warn("history disabled", zap.String("path", o.HistoryPath), zap.Error(err))
			fmt.Fprintf(warn, "warning: history disabled: %v\n", err)
		} else {
			s.repo = repo
		}
	}
	return s, nil
}

func (s *session) Close() {
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			s.log.Warn("failed to close history", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}
