package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/meetups/internal/logging"
	"github.com/robfig/cron/v3"
)

type loader interface {
	LoadMeetups(ctx context.Context) error
}

// startRefresher reloads meetups on the cron schedule spec. A run that is
// still going when the next one is due is skipped. The returned stop func
// waits for a running reload to finish.
func startRefresher(ctx context.Context, spec string, l loader, timeout time.Duration, logger logging.Logger) (stop func(), err error) {
	if spec == "" {
		return func() {}, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(spec, func() {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := l.LoadMeetups(rctx); err != nil {
			logger.Warn(rctx, "background refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}

	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
