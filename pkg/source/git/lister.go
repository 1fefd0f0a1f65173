package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/recipesync/pkg/integrations"
)

const defaultTimeout = 30 * time.Second

// Ref is a remote reference and the commit it points to.
type Ref struct {
	Name string // Short name without the refs/tags/ or refs/heads/ prefix
	Hash string
}

// Lister lists references of a remote repository.
type Lister interface {
	// Tags returns the remote's tags. Peeled entries ("^{}") are omitted.
	Tags(ctx context.Context, url string) ([]Ref, error)

	// Head returns the remote's default branch and its commit.
	Head(ctx context.Context, url string) (Ref, error)
}

// ExecLister runs the git command line client.
type ExecLister struct {
	Binary  string        // Defaults to "git"
	Timeout time.Duration // Per command; defaults to 30s
}

func (l ExecLister) Tags(ctx context.Context, url string) ([]Ref, error) {
	out, err := l.run(ctx, "ls-remote", "--tags", url)
	if err != nil {
		return nil, err
	}
	return parseTags(out), nil
}

func (l ExecLister) Head(ctx context.Context, url string) (Ref, error) {
	out, err := l.run(ctx, "ls-remote", "--symref", url, "HEAD")
	if err != nil {
		return Ref{}, err
	}
	ref, ok := parseHead(out)
	if !ok {
		return Ref{}, fmt.Errorf("%w: no HEAD advertised by %s", integrations.ErrNotFound, url)
	}
	return ref, nil
}

func (l ExecLister) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := l.Binary
	if bin == "" {
		bin = "git"
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), ctxErr)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("git binary not found: %w", err)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: git %s: %s", integrations.ErrNetwork, strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}

// parseTags reads "<hash>\trefs/tags/<name>" lines.
func parseTags(out []byte) []Ref {
	var refs []Ref
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		hash, name, ok := strings.Cut(sc.Text(), "\t")
		if !ok {
			continue
		}
		name, ok = strings.CutPrefix(strings.TrimSpace(name), "refs/tags/")
		if !ok || name == "" || strings.HasSuffix(name, "^{}") {
			continue
		}
		refs = append(refs, Ref{Name: name, Hash: strings.TrimSpace(hash)})
	}
	return refs
}

// parseHead reads the output of "ls-remote --symref <url> HEAD":
//
//	ref: refs/heads/main	HEAD
//	<hash>	HEAD
//
// Servers that do not advertise the symref yield "main" as the branch.
func parseHead(out []byte) (Ref, bool) {
	ref := Ref{Name: "main"}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if target, ok := strings.CutPrefix(line, "ref: refs/heads/"); ok {
			ref.Name, _, _ = strings.Cut(target, "\t")
			continue
		}
		hash, name, ok := strings.Cut(line, "\t")
		if ok && (name == "HEAD" || strings.HasPrefix(name, "refs/heads/")) {
			ref.Hash = strings.TrimSpace(hash)
		}
	}
	return ref, ref.Hash != ""
}
