package stages

import (
	"context"
	"fmt"

	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/transport"
)

// RunTests executes the application test suite inside the checkout. A failing
// suite is terminal for the run: the stage carries no retry policy and no
// rollback, since running tests mutates nothing on the host.
func RunTests() engine.Stage {
	return engine.Stage{
		Name:    "run-tests",
		Summary: "run pytest inside the application checkout",
		Action: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) (*transport.Result, error) {
			cmd := fmt.Sprintf("cd %s && python3 -m pytest", rc.AppDir)
			return tr.Execute(ctx, cmd, rc.CommandTimeout)
		},
	}
}
