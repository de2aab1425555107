package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/meetups/internal/client/config"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"-b", "carrier-pigeon"}, strings.NewReader(""), &out, &errOut)
	require.ErrorContains(t, err, "unknown backend")
}

func TestOpenCollections_RTDB(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendRTDB, RTDBURL: "https://db.example"}

	c, closeFn, err := openCollections(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	closeFn()
}

func TestOpenCollections_Unknown(t *testing.T) {
	_, _, err := openCollections(context.Background(), &config.Config{Backend: "x"}, nil, nil)
	require.Error(t, err)
}
