package console

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	Logger().Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output at default level: %q", buf.String())
	}

	SetVerbose(true)
	if Logger().GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", Logger().GetLevel())
	}
	Logger().Debug("git diff --cached --name-only")
	if !strings.Contains(buf.String(), "git diff --cached --name-only") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no color codes, got %q", buf.String())
	}
}
