package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		json      bool
		wantDebug bool
	}{
		{name: "console info", wantDebug: false},
		{name: "console verbose", verbose: true, wantDebug: true},
		{name: "json info", json: true, wantDebug: false},
		{name: "json verbose", verbose: true, json: true, wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.verbose, tt.json)
			require.NoError(t, err)
			require.NotNil(t, l)
			require.Equal(t, tt.wantDebug, l.Core().Enabled(zapcore.DebugLevel))
			require.True(t, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
