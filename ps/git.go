package ps

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/go-git/go-git/v6/plumbing/transport/ssh"
	"github.com/go-git/go-git/v6/storage/memory"
)

// AuthType defines the type of authentication
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeToken AuthType = "token"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeBasic AuthType = "basic"
)

// GitAuth holds authentication configuration for git sources
type GitAuth struct {
	Type       AuthType `yaml:"type"`
	Token      string   `yaml:"token"`      // For token auth
	KeyPath    string   `yaml:"keyPath"`    // For SSH key auth
	Passphrase string   `yaml:"passphrase"` // For SSH key with passphrase
	Username   string   `yaml:"username"`   // For basic auth
	Password   string   `yaml:"password"`   // For basic auth
}

// getAuthMethod converts GitAuth to go-git's AuthMethod
func (auth *GitAuth) getAuthMethod() (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}

	switch auth.Type {
	case AuthTypeNone, "":
		return nil, nil

	case AuthTypeToken:
		// Token auth uses username "git" or any non-empty string
		return &http.BasicAuth{
			Username: "git",
			Password: auth.Token,
		}, nil

	case AuthTypeSSH:
		keyPath := auth.KeyPath
		if keyPath == "" {
			// Default to ~/.ssh/id_rsa
			home, _ := os.UserHomeDir()
			keyPath = filepath.Join(home, ".ssh", "id_rsa")
		}
		return ssh.NewPublicKeysFromFile("git", keyPath, auth.Passphrase)

	case AuthTypeBasic:
		return &http.BasicAuth{
			Username: auth.Username,
			Password: auth.Password,
		}, nil

	default:
		return nil, fmt.Errorf("unknown auth type: %s", auth.Type)
	}
}

// gitSource is a file inside a git repository, written as
// git+<repo-url>//<path>[@ref].
type gitSource struct {
	Repo string
	Path string
	Ref  string
}

// reference returns the ref to clone. Bare names are taken as branches.
func (s gitSource) reference() plumbing.ReferenceName {
	if s.Ref == "" {
		return ""
	}
	if strings.HasPrefix(s.Ref, "refs/") {
		return plumbing.ReferenceName(s.Ref)
	}
	return plumbing.NewBranchReferenceName(s.Ref)
}

func parseGitURL(url string) (gitSource, error) {
	rest := url[len("git+"):]

	start := 0
	if i := strings.Index(rest, "://"); i >= 0 {
		start = i + len("://")
	}
	sep := strings.Index(rest[start:], "//")
	if sep < 0 {
		return gitSource{}, fmt.Errorf("invalid git URL, expected <repo>//<path>: %s", url)
	}
	sep += start

	src := gitSource{
		Repo: rest[:sep],
		Path: rest[sep+2:],
	}
	if i := strings.LastIndex(src.Path, "@"); i >= 0 {
		src.Path, src.Ref = src.Path[:i], src.Path[i+1:]
	}
	if src.Repo == "" || src.Path == "" {
		return gitSource{}, fmt.Errorf("invalid git URL: %s", url)
	}
	return src, nil
}

func isNetworkRepo(repo string) bool {
	lower := strings.ToLower(repo)
	if strings.HasPrefix(lower, "file://") {
		return false
	}
	return strings.Contains(lower, "://") || strings.HasPrefix(lower, "git@")
}

// openGitReader clones the repository into memory and opens the file from
// its worktree.
func openGitReader(ctx context.Context, src gitSource, auth *GitAuth) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	authMethod, err := auth.getAuthMethod()
	if err != nil {
		return nil, fmt.Errorf("failed to configure auth: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL:           src.Repo,
		Auth:          authMethod,
		ReferenceName: src.reference(),
		SingleBranch:  true,
	}
	// Local repositories are served in-process, which has no shallow support.
	if isNetworkRepo(src.Repo) {
		cloneOpts.Depth = 1
	}

	wt := memfs.New()
	_, err = git.Clone(memory.NewStorage(), wt, cloneOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone '%s': %w", src.Repo, err)
	}

	f, err := wt.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s' in '%s': %w", src.Path, src.Repo, err)
	}
	return f, nil
}
