package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		want     zapcore.Level
		wantErr  bool
	}{
		{name: "debug json", level: "debug", encoding: "json", want: zapcore.DebugLevel},
		{name: "info console", level: "info", encoding: "console", want: zapcore.InfoLevel},
		{name: "upper case level", level: "WARN", encoding: "json", want: zapcore.WarnLevel},
		{name: "bad level", level: "loud", encoding: "json", wantErr: true},
		{name: "bad encoding", level: "info", encoding: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}
