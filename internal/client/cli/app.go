package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/meetups/internal/client/actions"
	"github.com/dmitrijs2005/meetups/internal/client/store"
	"github.com/dmitrijs2005/meetups/internal/logging"
)

// Options configures an App.
type Options struct {
	In  io.Reader
	Out io.Writer

	// RequestTimeout bounds every remote call issued by one command.
	RequestTimeout time.Duration

	// RefreshCron is the background reload schedule; empty disables it.
	RefreshCron string
}

type App struct {
	actions *actions.Actions
	store   *store.Store
	logger  logging.Logger

	reader  *bufio.Reader
	out     io.Writer
	timeout time.Duration
	refresh string
}

func NewApp(acts *actions.Actions, logger logging.Logger, opts Options) *App {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &App{
		actions: acts,
		store:   acts.Store(),
		logger:  logger.With("component", "cli"),
		reader:  bufio.NewReader(opts.In),
		out:     opts.Out,
		timeout: opts.RequestTimeout,
		refresh: opts.RefreshCron,
	}
}

// Run loads the meetups once, starts the background refresher and serves
// the REPL until the user exits. Pending background work is awaited before
// returning.
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.store.Subscribe(func(m store.Mutation) {
		a.logger.Debug(ctx, "mutation committed", "mutation", m.Name, "payload", fmt.Sprintf("%+v", m.Payload))
	})
	defer unsubscribe()
	defer a.actions.Wait()

	stop, err := startRefresher(ctx, a.refresh, a.actions, a.timeout, a.logger)
	if err != nil {
		return err
	}
	defer stop()

	a.printf("Welcome to meetups CLI (type 'help' for commands)\n")
	if u := a.store.User(); u != nil {
		a.printf("Signed in as %s\n", u.ID)
	}
	_ = a.Load(ctx)

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.store.User() != nil
}

// status is shown in the prompt: the signed-in user and a loading marker.
func (a *App) status() string {
	s := "guest"
	if u := a.store.User(); u != nil {
		s = u.ID
	}
	if a.store.Loading() {
		s += " loading"
	}
	return s
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
