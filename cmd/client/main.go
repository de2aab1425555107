package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/meetups/internal/buildinfo"
	"github.com/dmitrijs2005/meetups/internal/client/actions"
	"github.com/dmitrijs2005/meetups/internal/client/cli"
	"github.com/dmitrijs2005/meetups/internal/client/config"
	"github.com/dmitrijs2005/meetups/internal/client/remote"
	"github.com/dmitrijs2005/meetups/internal/client/remote/identity"
	"github.com/dmitrijs2005/meetups/internal/client/remote/pgstore"
	"github.com/dmitrijs2005/meetups/internal/client/remote/rtdb"
	"github.com/dmitrijs2005/meetups/internal/client/remote/s3blob"
	"github.com/dmitrijs2005/meetups/internal/client/session"
	"github.com/dmitrijs2005/meetups/internal/client/store"
	"github.com/dmitrijs2005/meetups/internal/filex"
	"github.com/dmitrijs2005/meetups/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	sessionPath, err := filex.EnsureParentDir(cfg.SessionDBPath)
	if err != nil {
		return err
	}
	sessions, err := session.Open(ctx, sessionPath)
	if err != nil {
		return fmt.Errorf("open session database: %w", err)
	}
	defer sessions.Close()

	idp := identity.New(cfg.IdentityURL, cfg.APIKey, sessions,
		identity.WithTokenURL(cfg.TokenURL),
		identity.WithHTTPClient(httpClient))

	collections, closeCollections, err := openCollections(ctx, cfg, idp, httpClient)
	if err != nil {
		return err
	}
	defer closeCollections()

	blobs, err := s3blob.New(ctx, s3blob.Config{
		Bucket:        cfg.S3.Bucket,
		Region:        cfg.S3.Region,
		BaseEndpoint:  cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		PublicBaseURL: cfg.S3.PublicBaseURL,
		PresignExpiry: cfg.S3.PresignExpiry,
	})
	if err != nil {
		return err
	}

	acts := actions.New(store.New(), collections, blobs, idp, logger)

	rctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	if _, err := acts.RestoreSession(rctx, idp); err != nil {
		logger.Warn(ctx, "continuing without a restored session", "error", err)
	}
	cancel()

	app := cli.NewApp(acts, logger, cli.Options{
		In:             stdin,
		Out:            stdout,
		RequestTimeout: cfg.RequestTimeout,
		RefreshCron:    cfg.RefreshCron,
	})
	return app.Run(ctx)
}

func openCollections(ctx context.Context, cfg *config.Config, tokens rtdb.TokenSource,
	httpClient *http.Client) (remote.CollectionStore, func(), error) {

	switch cfg.Backend {
	case config.BackendRTDB:
		c := rtdb.New(cfg.RTDBURL, rtdb.WithTokenSource(tokens), rtdb.WithHTTPClient(httpClient))
		return c, func() {}, nil

	case config.BackendPostgres:
		s, db, err := pgstore.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return s, func() { _ = db.Close() }, nil
	}

	return nil, nil, errors.New("unknown backend " + cfg.Backend)
}
