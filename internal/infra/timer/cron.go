package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CronTimerHost backs one-shot timers with a robfig/cron runner. Each
// scheduled instant becomes a cron entry that removes itself after firing,
// so the runner never re-triggers a past reminder.
type CronTimerHost struct {
	cron *cron.Cron
	mu   sync.Mutex
}

func NewCronTimerHost() *CronTimerHost {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC))
	c.Start()
	return &CronTimerHost{cron: c}
}

// Schedule arranges fn to run once at the given UTC instant.
func (h *CronTimerHost) Schedule(at time.Time, fn func()) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	at = at.UTC()
	var id cron.EntryID
	var err error
	id, err = h.cron.AddFunc(formatCronSpec(at), func() {
		// Read the entry id under the host lock: a job landing on the very
		// next second boundary must wait until Schedule assigned it.
		h.mu.Lock()
		handle := int(id)
		h.mu.Unlock()
		h.Remove(handle)
		fn()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add cron job: %w", err)
	}
	return int(id), nil
}

func (h *CronTimerHost) Remove(handle int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cron.Remove(cron.EntryID(handle))
}

// Stop halts the runner and waits for in-flight jobs.
func (h *CronTimerHost) Stop() {
	ctx := h.cron.Stop()
	<-ctx.Done()
	slog.Info("timer host stopped")
}

// formatCronSpec pins a spec to a single calendar instant.
// Seconds Minutes Hours DayOfMonth Month DayOfWeek
func formatCronSpec(t time.Time) string {
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), t.Month())
}
