package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWaitForShutdownOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WaitForShutdown(ctx, zap.NewNop(), time.Second, func(context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestWaitForShutdownPropagatesError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitForShutdown(ctx, zap.NewNop(), time.Second, func(context.Context) error {
		return errors.New("close failed")
	})
	assert.EqualError(t, err, "close failed")
}

func TestWaitForShutdownTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)
	err := WaitForShutdown(ctx, zap.NewNop(), 20*time.Millisecond, func(context.Context) error {
		<-block
		return nil
	})
	assert.Error(t, err)
}
