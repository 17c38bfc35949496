package logger

import (
	"testing"
)

func TestNew_BuildsForKnownEnvironments(t *testing.T) {
	for _, env := range []string{"development", "production", "staging", ""} {
		log, err := New(env)
		if err != nil {
			t.Errorf("New(%q) failed: %v", env, err)
			continue
		}
		if log == nil {
			t.Errorf("New(%q) returned nil logger", env)
			continue
		}
		log.Sync()
	}
}

func TestNew_ProductionLoggerSuppressesDebug(t *testing.T) {
	log, err := New("production")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if log.Core().Enabled(-1) { // zapcore.DebugLevel
		t.Error("production logger must not log at debug level")
	}
}

func TestNew_DevelopmentLoggerEnablesDebug(t *testing.T) {
	log, err := New("development")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !log.Core().Enabled(-1) {
		t.Error("development logger must log at debug level")
	}
}
