package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/transport"
)

var defaultPackages = []string{"git", "python3-pip", "python3-venv", "nginx"}

// InstallDependencies installs the system packages the application stack
// needs. apt-get is already idempotent, so the stage has no rollback:
// removing shared system packages could break unrelated services.
func InstallDependencies(packages []string) engine.Stage {
	if len(packages) == 0 {
		packages = defaultPackages
	}
	pkgList := strings.Join(packages, " ")

	return engine.Stage{
		Name:    "install",
		Summary: fmt.Sprintf("apt-get install %s", pkgList),
		Action: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) (*transport.Result, error) {
			cmd := fmt.Sprintf(
				"sudo apt-get update -y && sudo DEBIAN_FRONTEND=noninteractive apt-get install -y %s",
				pkgList,
			)
			return tr.Execute(ctx, cmd, rc.CommandTimeout)
		},
	}
}
