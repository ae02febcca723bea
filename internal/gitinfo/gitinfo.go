// Package gitinfo resolves repository metadata before a run starts. The
// clone itself happens on the remote host; resolving the branch head locally
// lets the run record exactly which revision it deployed.
package gitinfo

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// ResolveRevision lists the remote's refs without cloning and returns the
// commit hash the given branch points at.
func ResolveRevision(ctx context.Context, repoURL, branch string) (string, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("list refs of %s: %w", repoURL, err)
	}

	want := plumbing.NewBranchReferenceName(branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return ref.Hash().String(), nil
		}
	}

	return "", fmt.Errorf("branch %q not found on %s", branch, repoURL)
}
