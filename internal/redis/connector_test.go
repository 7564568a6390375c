package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/khub/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    20 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validOptions().validate())

	cases := map[string]func(*ConnectOptions){
		"empty addr":       func(o *ConnectOptions) { o.Addr = "" },
		"no timeout":       func(o *ConnectOptions) { o.ConnectTimeout = 0 },
		"no interval":      func(o *ConnectOptions) { o.RetryInterval = 0 },
		"no max wait":      func(o *ConnectOptions) { o.MaxWait = -time.Second },
		"no ping timeout":  func(o *ConnectOptions) { o.PingTimeout = 0 },
		"negative warning": func(o *ConnectOptions) { o.WarnThreshold = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			o := validOptions()
			mutate(&o)
			assert.Error(t, o.validate())
		})
	}
}

func TestBackoffIsCapped(t *testing.T) {
	b := &backoff{wait: time.Second, max: 5 * time.Second}
	got := []time.Duration{b.next(), b.next(), b.next(), b.next(), b.next()}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}, got)
}

func TestConnectGivesUp(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), validOptions(), logger.NewNop())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
