package syncerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumichain/lumichain-go/pkg/syncerr"
)

func TestNewWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := syncerr.New(syncerr.ClassPeerTimeout, "header request", cause)

	require.Equal(t, syncerr.ClassPeerTimeout, err.Class())
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "header request")
}

func TestMissingStateNodeClassAndErrorsAs(t *testing.T) {
	var hash [32]byte
	hash[0] = 0x42
	err := syncerr.NewMissingStateNode(hash, "state")

	var wrapped error = err
	var target *syncerr.MissingStateNode
	require.True(t, errors.As(wrapped, &target))
	require.Equal(t, syncerr.ClassMissingStateNode, target.Class())
	require.Equal(t, hash, target.Hash)
}

func TestBlockExecutionClassAndMessage(t *testing.T) {
	cause := errors.New("out of gas")
	err := syncerr.NewBlockExecution(42, cause)

	require.Equal(t, syncerr.ClassBlockExecution, err.Class())
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "42")
}

func TestClassStringCoversKnownValues(t *testing.T) {
	for _, c := range []syncerr.Class{
		syncerr.ClassPeerProtocol, syncerr.ClassPeerTimeout, syncerr.ClassNoUsablePeer,
		syncerr.ClassMissingStateNode, syncerr.ClassBlockExecution, syncerr.ClassInvariant,
		syncerr.ClassValidationBeforeExec,
	} {
		require.NotEqual(t, "unknown", c.String())
	}
}
