// Package cronjob runs the periodic background jobs of the service.
package cronjob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"
)

const WhatsAppProbeJob = "whatsapp-probe"

// Prober refreshes the persisted WhatsApp connection flag.
type Prober interface {
	Probe(ctx context.Context) error
}

type CronJobManager struct {
	cron      *cron.Cron
	cronMutex sync.RWMutex
	entries   map[string]cron.EntryID
}

func NewCronJobManager(loc *time.Location) *CronJobManager {
	if loc == nil {
		loc = time.Local
	}
	return &CronJobManager{
		cron:    cron.New(cron.WithLocation(loc)),
		entries: make(map[string]cron.EntryID),
	}
}

// AddCronJob schedules f under name, replacing a job of the same name.
func (cm *CronJobManager) AddCronJob(name, spec string, f cron.FuncJob) (cron.EntryID, error) {
	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()

	entryID, err := cm.cron.AddFunc(spec, f)
	if err != nil {
		err = fmt.Errorf("CronJobManager.AddCronJob %s: %w", name, err)
		klog.Error(err)
		return -1, err
	}
	if old, ok := cm.entries[name]; ok {
		cm.cron.Remove(old)
	}
	cm.entries[name] = entryID
	klog.Infof("cron job %s scheduled with spec %q", name, spec)
	return entryID, nil
}

func (cm *CronJobManager) RemoveCronJob(name string) {
	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()
	if id, ok := cm.entries[name]; ok {
		cm.cron.Remove(id)
		delete(cm.entries, name)
	}
}

// Next returns the next activation of a job, or the zero time if it is unknown.
func (cm *CronJobManager) Next(name string) time.Time {
	cm.cronMutex.RLock()
	defer cm.cronMutex.RUnlock()
	id, ok := cm.entries[name]
	if !ok {
		return time.Time{}
	}
	return cm.cron.Entry(id).Next
}

func (cm *CronJobManager) Start() {
	cm.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (cm *CronJobManager) Stop(ctx context.Context) {
	done := cm.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		klog.Warning("cron jobs still running at shutdown")
	}
}

// NewProbeJob wraps a prober into a cron job bounded by timeout.
func NewProbeJob(p Prober, timeout time.Duration) cron.FuncJob {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.Probe(ctx); err != nil {
			klog.Warningf("whatsapp probe: %v", err)
		}
	}
}
