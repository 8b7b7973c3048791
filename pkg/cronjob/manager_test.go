package cronjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type countingProber struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (p *countingProber) Probe(ctx context.Context) error {
	p.calls.Add(1)
	_, ok := ctx.Deadline()
	p.deadline.Store(ok)
	return p.err
}

func TestCronJobManager(t *testing.T) {
	Convey("Given a cron job manager", t, func() {
		manager := NewCronJobManager(time.UTC)

		Convey("an invalid spec is rejected", func() {
			_, err := manager.AddCronJob(WhatsAppProbeJob, "not a spec", func() {})
			So(err, ShouldNotBeNil)
			So(manager.Next(WhatsAppProbeJob).IsZero(), ShouldBeTrue)
		})

		Convey("re-adding a job replaces the previous entry", func() {
			first, err := manager.AddCronJob(WhatsAppProbeJob, "*/5 * * * *", func() {})
			So(err, ShouldBeNil)
			second, err := manager.AddCronJob(WhatsAppProbeJob, "@every 1m", func() {})
			So(err, ShouldBeNil)
			So(second, ShouldNotEqual, first)
			So(manager.cron.Entries(), ShouldHaveLength, 1)

			manager.RemoveCronJob(WhatsAppProbeJob)
			So(manager.cron.Entries(), ShouldBeEmpty)
		})

		Convey("a scheduled job runs and stops cleanly", func() {
			prober := &countingProber{}
			_, err := manager.AddCronJob(WhatsAppProbeJob, "@every 1s", NewProbeJob(prober, time.Second))
			So(err, ShouldBeNil)
			manager.Start()
			deadline := time.Now().Add(3 * time.Second)
			for prober.calls.Load() == 0 && time.Now().Before(deadline) {
				time.Sleep(50 * time.Millisecond)
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			manager.Stop(ctx)
			So(prober.calls.Load(), ShouldBeGreaterThan, int32(0))
			So(prober.deadline.Load(), ShouldBeTrue)
		})
	})
}

func TestProbeJobSwallowsErrors(t *testing.T) {
	Convey("A failing probe does not panic the scheduler", t, func() {
		prober := &countingProber{err: errors.New("unreachable")}
		So(func() { NewProbeJob(prober, time.Second)() }, ShouldNotPanic)
		So(prober.calls.Load(), ShouldEqual, int32(1))
	})
}
