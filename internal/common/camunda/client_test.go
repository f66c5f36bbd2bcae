package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"event-package-workers/internal/common/config"
	"event-package-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(max int) *RetryConfig {
	return &RetryConfig{MaxRetries: max, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestExecuteWithRetry_SucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastRetry(3), "complete job", func(context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastRetry(3), "complete job", func(context.Context) error {
		calls++
		return stderrors.New("rpc error: code = NotFound desc = job not found")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBusinessRule, stdErr.Code)
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	calls := 0
	cause := stderrors.New("context deadline exceeded")
	err := ExecuteWithRetry(context.Background(), fastRetry(2), "topology", func(context.Context) error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, stderrors.Is(err, cause))

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTimeout, stdErr.Code)
	assert.Contains(t, stdErr.Details, "after 2 retries")
}

func TestExecuteWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	retry := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	err := ExecuteWithRetry(ctx, retry, "topology", func(context.Context) error {
		return stderrors.New("unavailable")
	})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := map[string]bool{
		"connection refused":               true,
		"rpc error: code = Unavailable":    true,
		"context deadline exceeded":        true,
		"RESOURCE_EXHAUSTED: backpressure": true,
		"job not found":                    false,
		"invalid argument":                 false,
	}
	for msg, want := range tests {
		assert.Equal(t, want, isRetryableZeebeError(stderrors.New(msg)), msg)
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want errors.ErrorCode
	}{
		{"deadline exceeded", errors.ErrCodeTimeout},
		{"connection refused", errors.ErrCodeExternalService},
		{"permission denied", errors.ErrCodeBusinessRule},
		{"something odd", errors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			stdErr, ok := errors.AsStandardError(mapZeebeError(stderrors.New(tt.msg), "op", 0))
			require.True(t, ok)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}

func TestClientConfigFrom(t *testing.T) {
	cc := ClientConfigFrom(config.CamundaConfig{
		BrokerAddress:  "zeebe:26500",
		UsePlaintext:   true,
		RequestTimeout: 5000,
	})

	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 5*time.Second, cc.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)
}
