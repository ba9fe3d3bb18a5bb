package tarantool_queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnector_InitNilConfig(t *testing.T) {
	c := &Connector{}
	assert.Error(t, c.Init(nil))
}

func TestConnector_InitBadParams(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]string
	}{
		{
			name: "Missing max_recons",
			cfg:  map[string]string{"host": "localhost", "port": "3301", "timeout": "1", "reconnect": "1"},
		},
		{
			name: "Bad timeout",
			cfg:  map[string]string{"host": "localhost", "port": "3301", "max_recons": "5", "timeout": "x", "reconnect": "1"},
		},
		{
			name: "Bad reconnect",
			cfg:  map[string]string{"host": "localhost", "port": "3301", "max_recons": "5", "timeout": "1", "reconnect": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Connector{}
			assert.Error(t, c.Init(tt.cfg))
		})
	}
}
