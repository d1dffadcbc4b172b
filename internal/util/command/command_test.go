package command_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/batchsend/batchsend/internal/util/command"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubcommandGroup(t *testing.T) {
	group := command.NewSubcommandGroup("probe",
		&cobra.Command{Use: "rpc", Run: func(*cobra.Command, []string) {}},
		&cobra.Command{Use: "source", Run: func(*cobra.Command, []string) {}},
	)

	assert.Equal(t, "probe", group.Use)
	require.Len(t, group.Commands(), 2)

	var out bytes.Buffer
	group.SetOut(&out)
	group.SetArgs([]string{})
	require.NoError(t, group.Execute())
	assert.Contains(t, out.String(), "rpc")
	assert.Contains(t, out.String(), "source")
}

func TestWithWalletInvalidConfig(t *testing.T) {
	c := console.New(&bytes.Buffer{}, true)

	cases := map[string]struct {
		cfg  config.Config
		want error
	}{
		"no rpc": {
			cfg:  config.Config{Wallet: config.Wallet{PrivateKey: "0x01"}},
			want: config.ErrMissingRPCURL,
		},
		"no credential": {
			cfg:  config.Config{RPC: config.RPC{URLs: []string{"http://127.0.0.1:8545"}}},
			want: config.ErrMissingCredential,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			err := command.WithWallet(context.Background(), tc.cfg, c, func(context.Context, chain.Client) error {
				called = true
				return nil
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))
			assert.False(t, called)
		})
	}
}

func TestWithWalletBadKey(t *testing.T) {
	cfg := config.Config{
		RPC:    config.RPC{URLs: []string{"http://127.0.0.1:8545"}},
		Wallet: config.Wallet{PrivateKey: "not-hex"},
	}

	err := command.WithWallet(context.Background(), cfg, console.New(&bytes.Buffer{}, true), func(context.Context, chain.Client) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load wallet key")
}
