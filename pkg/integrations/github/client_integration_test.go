//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
)

func TestListTags_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(cache.NewNullCache(), token, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{"BurntSushi/ripgrep", "BurntSushi", "ripgrep", false},
		{"nonexistent", "nonexistent-owner-12345", "nonexistent-repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := client.ListTags(ctx, tt.owner, tt.repo, true)
			if (err != nil) != tt.wantErr {
				t.Errorf("ListTags(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(tags) == 0 {
				t.Error("expected at least one tag")
			}
		})
	}
}
