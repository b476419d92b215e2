// Package gitsync implements an Address-source activity that clones (or
// updates) a git repository and reads one file's content out of it,
// adapted from the teacher's repo plugin's clone/open handling.
package gitsync

import (
	"context"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Activity fetches repoUrl into workDir (cloning on first use, pulling
// thereafter) and returns the content of filePath inside the checkout as
// the activity's output payload.
type Activity struct {
	WorkDirRoot string
}

func New(workDirRoot string) *Activity {
	return &Activity{WorkDirRoot: workDirRoot}
}

func (a *Activity) Name() string { return "gitsync" }

type config struct {
	RepoURL  string `json:"repoUrl"`
	Branch   string `json:"branch"`
	FilePath string `json:"filePath"`
}

func (a *Activity) Invoke(ctx context.Context, input ports.ActivityInput) (ports.ActivityOutput, error) {
	repoURL, _ := input.Assignments["connectionString"].(string)
	if repoURL == "" {
		return ports.ActivityOutput{}, domainerrors.ValidationFailure("gitsync requires an address connectionString (the repo URL)", nil)
	}
	branch, _ := input.Assignments["branch"].(string)
	filePath, _ := input.Assignments["filePath"].(string)
	if filePath == "" {
		return ports.ActivityOutput{}, domainerrors.ValidationFailure("gitsync requires a filePath assignment entity", nil)
	}

	dest := filepath.Join(a.WorkDirRoot, repoHash(repoURL))

	repo, err := git.PlainOpen(dest)
	if err != nil {
		opts := &git.CloneOptions{URL: repoURL}
		if branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
			opts.SingleBranch = true
		}
		repo, err = git.PlainCloneContext(ctx, dest, false, opts)
		if err != nil {
			return ports.ActivityOutput{}, domainerrors.PluginException(err)
		}
	} else {
		worktree, werr := repo.Worktree()
		if werr == nil {
			_ = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		}
	}

	data, err := os.ReadFile(filepath.Join(dest, filePath))
	if err != nil {
		return ports.ActivityOutput{}, domainerrors.PluginException(err)
	}
	return ports.ActivityOutput{Payload: data}, nil
}

func repoHash(url string) string {
	var h uint64 = 14695981039346656037
	for _, b := range []byte(url) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return "repo-" + itoa(h)
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

var _ ports.Activity = (*Activity)(nil)
