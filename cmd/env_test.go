package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyon-research/equity-cli/internal/config"
)

func TestInitStoreSelectsDriver(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg = &config.Config{Store: config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "env.db"),
	}}
	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())

	cfg = &config.Config{Store: config.StoreConfig{Driver: "mysql"}}
	_, err = initStore(context.Background())
	require.ErrorContains(t, err, "unsupported store driver")
}
