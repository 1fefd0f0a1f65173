package buildinfo

import "testing"

func TestUserAgent(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	Version, Commit = "dev", "none"
	if got := UserAgent("recipesync"); got != "recipesync/dev" {
		t.Errorf("UserAgent() = %q", got)
	}
	Version, Commit = "v0.3.0", "abc1234"
	if got := UserAgent("recipesync"); got != "recipesync/v0.3.0 (abc1234)" {
		t.Errorf("UserAgent() = %q", got)
	}
}
