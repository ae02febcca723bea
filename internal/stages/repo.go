package stages

import (
	"context"
	"fmt"

	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/transport"
)

// SyncRepository clones the application repository into the app directory, or
// fast-forwards an existing checkout to the configured branch, then installs
// the Python requirements the checkout declares. Rollback removes the
// checkout so a re-run starts from a clean clone.
func SyncRepository() engine.Stage {
	return engine.Stage{
		Name:    "sync-repo",
		Summary: "clone or update the application checkout and install requirements",
		Action: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) (*transport.Result, error) {
			cmd := fmt.Sprintf(
				"if [ -d %[1]s/.git ]; then "+
					"git -C %[1]s fetch --prune origin && git -C %[1]s checkout %[2]s && git -C %[1]s reset --hard origin/%[2]s; "+
					"else git clone --branch %[2]s %[3]s %[1]s; fi"+
					" && if [ -f %[1]s/requirements.txt ]; then python3 -m pip install --user -r %[1]s/requirements.txt; fi",
				rc.AppDir, rc.Branch, rc.RepoURL,
			)
			return tr.Execute(ctx, cmd, rc.CommandTimeout)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) error {
			_, err := tr.Execute(ctx, fmt.Sprintf("rm -rf %s", rc.AppDir), rc.CommandTimeout)
			return err
		},
	}
}
