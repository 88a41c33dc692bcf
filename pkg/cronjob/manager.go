// Package cronjob schedules the periodic maintenance work of the server,
// currently the nightly purge of old read notifications.
package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/loopwork/taskboard/pkg/logutils"
)

// purgeSpec runs every day at 03:00 local time.
const purgeSpec = "0 3 * * *"

// NotificationPurger deletes read notifications older than a cutoff.
type NotificationPurger interface {
	PurgeReadNotifications(ctx context.Context, before time.Time) (int64, error)
}

type Manager struct {
	cron          *cron.Cron
	purger        NotificationPurger
	retentionDays int
}

func NewManager(purger NotificationPurger, retentionDays int) *Manager {
	return &Manager{
		cron:          cron.New(cron.WithLocation(time.Local)),
		purger:        purger,
		retentionDays: retentionDays,
	}
}

// Start registers the purge job and launches the scheduler.
func (m *Manager) Start() error {
	if _, err := m.cron.AddFunc(purgeSpec, m.purgeOnce); err != nil {
		return err
	}
	m.cron.Start()
	logutils.Log.Infof("cronjob: purging read notifications older than %d days at %q", m.retentionDays, purgeSpec)
	return nil
}

// Stop waits for running jobs to finish.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Manager) purgeOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -m.retentionDays)
	purged, err := m.purger.PurgeReadNotifications(ctx, cutoff)
	if err != nil {
		logutils.Log.Errorf("cronjob: purge read notifications: %v", err)
		return
	}
	if purged > 0 {
		logutils.Log.Infof("cronjob: purged %d read notifications", purged)
	}
}
