package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFromContext(t *testing.T) {
	stored := NewLogger(&bytes.Buffer{})
	Configure(stored, Flags{Verbose: true})

	tests := []struct {
		name      string
		ctx       context.Context
		want      *log.Logger
		wantLevel log.Level
	}{
		{"stored logger", WithLogger(context.Background(), stored), stored, log.DebugLevel},
		{"missing logger", context.Background(), nil, log.WarnLevel},
		{"nil logger", WithLogger(context.Background(), nil), nil, log.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromContext(tt.ctx)
			if got == nil {
				t.Fatal("FromContext returned nil")
			}
			if tt.want != nil && got != tt.want {
				t.Error("FromContext did not return the stored logger")
			}
			if got.GetLevel() != tt.wantLevel {
				t.Errorf("level = %v, want %v", got.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestNamed_PrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	ctx := WithLogger(context.Background(), l)

	Named(ctx, "tray").Warn("menu rebuilt")

	if !strings.Contains(buf.String(), "tray") || !strings.Contains(buf.String(), "menu rebuilt") {
		t.Errorf("log = %q", buf.String())
	}
}
