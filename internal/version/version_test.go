package version

import "testing"

func TestString(t *testing.T) {
	Version, Commit, BuildTime = "1.2.3", "abc123", "2024-01-15T12:00:00Z"
	defer func() { Version, Commit, BuildTime = "dev", "unknown", "unknown" }()

	want := "1.2.3 (abc123) built 2024-01-15T12:00:00Z"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Get(); got.Version != "1.2.3" || got.Commit != "abc123" {
		t.Errorf("Get() = %+v", got)
	}
}
