package ps

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
)

func TestParseGitURL(t *testing.T) {
	tests := []struct {
		url  string
		want gitSource
	}{
		{
			"git+https://github.com/org/repo.git//data/users.csv",
			gitSource{Repo: "https://github.com/org/repo.git", Path: "data/users.csv"},
		},
		{
			"git+https://github.com/org/repo.git//users.json@release",
			gitSource{Repo: "https://github.com/org/repo.git", Path: "users.json", Ref: "release"},
		},
		{
			"git+ssh://git@github.com/org/repo.git//a/b.csv@refs/tags/v1",
			gitSource{Repo: "ssh://git@github.com/org/repo.git", Path: "a/b.csv", Ref: "refs/tags/v1"},
		},
		{
			"git+/srv/repos/data//users.csv",
			gitSource{Repo: "/srv/repos/data", Path: "users.csv"},
		},
	}

	for _, tt := range tests {
		got, err := parseGitURL(tt.url)
		if err != nil {
			t.Errorf("parseGitURL(%q) failed: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseGitURL(%q) = %+v, want %+v", tt.url, got, tt.want)
		}
	}

	for _, invalid := range []string{"git+https://github.com/org/repo.git", "git+https://host/repo//", "git+//a.csv"} {
		if _, err := parseGitURL(invalid); err == nil {
			t.Errorf("Expected error for %s", invalid)
		}
	}
}

func TestGitReference(t *testing.T) {
	tests := []struct {
		ref  string
		want plumbing.ReferenceName
	}{
		{"", ""},
		{"main", "refs/heads/main"},
		{"refs/tags/v1", "refs/tags/v1"},
	}
	for _, tt := range tests {
		if got := (gitSource{Ref: tt.ref}).reference(); got != tt.want {
			t.Errorf("reference(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestIsNetworkRepo(t *testing.T) {
	for repo, want := range map[string]bool{
		"https://github.com/org/repo.git": true,
		"git@github.com:org/repo.git":     true,
		"file:///srv/repo":                false,
		"/srv/repo":                       false,
	} {
		if got := isNetworkRepo(repo); got != want {
			t.Errorf("isNetworkRepo(%q) = %v, want %v", repo, got, want)
		}
	}
}

func TestGitAuthMethod(t *testing.T) {
	var nilAuth *GitAuth
	if method, err := nilAuth.getAuthMethod(); method != nil || err != nil {
		t.Errorf("Expected no auth for nil config, got %v, %v", method, err)
	}

	method, err := (&GitAuth{Type: AuthTypeToken, Token: "secret"}).getAuthMethod()
	if err != nil || method == nil {
		t.Fatalf("Expected token auth, got %v, %v", method, err)
	}
	if method.Name() != "http-basic-auth" {
		t.Errorf("Expected http-basic-auth, got %s", method.Name())
	}

	if _, err := (&GitAuth{Type: "kerberos"}).getAuthMethod(); err == nil {
		t.Error("Expected error for unknown auth type")
	}
}

// initDataRepo creates a repository holding data/users.csv on the default
// branch and a changed copy on branch "next".
func initDataRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	wt := osfs.New(dir)
	dotGit, err := wt.Chroot(".git")
	if err != nil {
		t.Fatalf("Failed to chroot: %v", err)
	}
	repo, err := git.Init(filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), git.WithWorkTree(wt))
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	commit := func(content, message string) plumbing.Hash {
		if err := util.WriteFile(worktree.Filesystem, "data/users.csv", []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := worktree.Add("."); err != nil {
			t.Fatalf("Failed to stage: %v", err)
		}
		hash, err := worktree.Commit(message, &git.CommitOptions{
			Author: &object.Signature{Name: "test", Email: "test@test.com", When: time.Now()},
		})
		if err != nil {
			t.Fatalf("Failed to commit: %v", err)
		}
		return hash
	}

	head := commit("id,name\n1,Alice\n", "add users")
	next := commit("id,name\n1,Alice\n2,Bob\n", "add bob")

	// Keep the default branch at the first commit and point next at the second.
	headRef, err := repo.Head()
	if err != nil {
		t.Fatalf("Failed to read HEAD: %v", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(headRef.Name(), head)); err != nil {
		t.Fatalf("Failed to reset branch: %v", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("next"), next)); err != nil {
		t.Fatalf("Failed to create branch: %v", err)
	}
	return dir
}

func TestReadFileFromGit(t *testing.T) {
	dir := initDataRepo(t)
	ctx := context.Background()

	rows, err := ReadFile(ctx, "git+"+dir+"//data/users.csv", Options{})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected 1 row on the default branch, got %d", len(rows))
	}

	rows, err = ReadFile(ctx, "git+"+dir+"//data/users.csv@next", Options{})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows on next, got %d", len(rows))
	}

	if _, err := ReadFile(ctx, "git+"+dir+"//data/missing.csv", Options{}); err == nil {
		t.Error("Expected error for missing file")
	}
}
