package workers

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/miraihq/mirai-interview/internal/repositories/disk"
	"github.com/miraihq/mirai-interview/internal/repositories/memory"
)

// Janitor periodically sweeps expired sessions and, at startup, clears
// audio artifacts orphaned by a previous run. Deletion timers die with
// the process, so anything older than MaxArtifactAge on disk is left
// over from a crash or restart.
type Janitor struct {
	Sessions  *memory.SessionStore
	Artifacts *disk.ArtifactStore

	Interval       time.Duration
	MaxArtifactAge time.Duration

	Logger *logrus.Logger
}

func (j *Janitor) Start(ctx context.Context) error {
	if j.Sessions == nil || j.Artifacts == nil {
		return errors.New("Janitor missing dependency: Sessions/Artifacts must be set")
	}
	if j.Interval <= 0 {
		j.Interval = time.Minute
	}
	if j.MaxArtifactAge <= 0 {
		j.MaxArtifactAge = time.Hour
	}
	if j.Logger == nil {
		j.Logger = logrus.New()
	}

	j.sweepArtifacts()

	go j.run(ctx)
	return nil
}

func (j *Janitor) run(ctx context.Context) {
	t := time.NewTicker(j.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := j.Sessions.Sweep(now); n > 0 {
				j.Logger.WithField("removed", n).Info("swept expired sessions")
			}
		}
	}
}

func (j *Janitor) sweepArtifacts() {
	n, err := j.Artifacts.SweepOlderThan(j.MaxArtifactAge, time.Now())
	if err != nil {
		j.Logger.WithError(err).Warn("startup artifact sweep failed")
		return
	}
	if n > 0 {
		j.Logger.WithField("removed", n).Info("removed orphaned audio artifacts")
	}
}
