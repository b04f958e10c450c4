package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvProvider(t *testing.T) {
	t.Run("should read connections and defaults", func(t *testing.T) {
		t.Setenv(ReadConnectionEnv, "redis://replica:6379")
		t.Setenv(WriteConnectionEnv, "redis://primary:6379")
		t.Setenv(DialTimeoutEnv, "")
		t.Setenv(ReadTimeoutEnv, "")
		t.Setenv(WriteTimeoutEnv, "")

		current := EnvProvider{}.Current()

		assert.Equal(t, "redis://replica:6379", current.ReadConnection)
		assert.Equal(t, "redis://primary:6379", current.WriteConnection)
		assert.Equal(t, DefaultDialTimeout, current.DialTimeout)
		assert.Equal(t, DefaultReadTimeout, current.ReadTimeout)
		assert.Equal(t, DefaultWriteTimeout, current.WriteTimeout)
	})

	t.Run("should reflect environment changes", func(t *testing.T) {
		provider := EnvProvider{}

		t.Setenv(ReadConnectionEnv, "a:6379")
		assert.Equal(t, "a:6379", provider.Current().ReadConnection)

		t.Setenv(ReadConnectionEnv, "b:6379")
		assert.Equal(t, "b:6379", provider.Current().ReadConnection)
	})

	t.Run("should parse timeouts", func(t *testing.T) {
		tests := []struct {
			name     string
			value    string
			expected time.Duration
		}{
			{name: "valid", value: "250ms", expected: 250 * time.Millisecond},
			{name: "garbage", value: "soon", expected: DefaultDialTimeout},
			{name: "negative", value: "-1s", expected: DefaultDialTimeout},
			{name: "zero", value: "0s", expected: DefaultDialTimeout},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				t.Setenv(DialTimeoutEnv, test.value)
				assert.Equal(t, test.expected, EnvProvider{}.Current().DialTimeout)
			})
		}
	})
}

func TestStatic(t *testing.T) {
	snapshot := Redis{ReadConnection: "r", WriteConnection: "w"}
	assert.Equal(t, snapshot, Static(snapshot).Current())
}
