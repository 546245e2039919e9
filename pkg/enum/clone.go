package enum

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"
)

// gitForges are hosts whose http(s) URLs are always repositories.
var gitForges = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
	"codeberg.org":  true,
}

// IsGitURL reports whether target looks like a clonable repository URL.
func IsGitURL(target string) bool {
	if strings.HasSuffix(target, ".git") ||
		strings.HasPrefix(target, "git@") ||
		strings.HasPrefix(target, "ssh://") ||
		strings.HasPrefix(target, "git://") {
		return true
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return gitForges[strings.ToLower(u.Hostname())] && strings.Trim(u.Path, "/") != ""
}

// CloneRepository shallow-clones repoURL into a temporary directory. The returned
// cleanup function removes the directory and is safe to call on error paths.
func CloneRepository(ctx context.Context, repoURL string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "scribe-clone-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("creating temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logrus.WithError(err).WithField("dir", tmpDir).Warn("removing clone")
		}
	}

	logrus.WithFields(logrus.Fields{"url": repoURL, "dir": tmpDir}).Info("cloning repository")
	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:           repoURL,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("cloning %s: %w", repoURL, err)
	}
	return tmpDir, cleanup, nil
}
