package app

import "testing"

func TestFirstRunMarkerLifecycle(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if !FirstRun() {
		t.Fatal("expected first invocation to report first run")
	}
	if FirstRun() {
		t.Fatal("expected marker to persist across invocations")
	}
}
