package log

import "testing"

func TestConfigureOnce(t *testing.T) {
	std.mu.Lock()
	std.configured = false
	std.mu.Unlock()

	if !Configure(LogToStderr(true)) {
		t.Fatal("first Configure call should succeed")
	}
	if Configure(LogToStderr(false)) {
		t.Fatal("second Configure call should be a no-op")
	}
}

func TestLogDirectoryDefaultsToTempDir(t *testing.T) {
	std.mu.Lock()
	std.logDir = ""
	std.mu.Unlock()
	if LogDirectory() == "" {
		t.Fatal("LogDirectory should never be empty")
	}
}

func TestVLevelGating(t *testing.T) {
	Configure()
	_ = V(0)
}
