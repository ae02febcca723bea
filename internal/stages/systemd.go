package stages

import (
	"context"
	"fmt"

	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/transport"
)

// ConfigureService installs the systemd unit for the application, reloads the
// daemon, and restarts the service. Rollback stops and disables the unit and
// removes its file.
func ConfigureService() engine.Stage {
	return engine.Stage{
		Name:    "configure-service",
		Summary: "install systemd unit, daemon-reload, restart service",
		Action: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) (*transport.Result, error) {
			cmd := fmt.Sprintf(`set -e
sudo tee /etc/systemd/system/%[1]s.service >/dev/null <<'EOF'
%[2]s
EOF
sudo systemctl daemon-reload
sudo systemctl enable %[1]s
sudo systemctl restart %[1]s`, rc.ServiceName, systemdUnit(rc))
			return tr.Execute(ctx, cmd, rc.CommandTimeout)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) error {
			cmd := fmt.Sprintf(
				"sudo systemctl disable --now %[1]s; sudo rm -f /etc/systemd/system/%[1]s.service && sudo systemctl daemon-reload",
				rc.ServiceName,
			)
			_, err := tr.Execute(ctx, cmd, rc.CommandTimeout)
			return err
		},
	}
}

func systemdUnit(rc *engine.RunContext) string {
	return fmt.Sprintf(`[Unit]
Description=%[1]s application
After=network.target

[Service]
User=%[2]s
WorkingDirectory=%[3]s
ExecStart=/usr/bin/python3 -m gunicorn --workers 3 --bind 127.0.0.1:%[4]d app:app
Restart=on-failure

[Install]
WantedBy=multi-user.target`, rc.AppName, rc.SSHUser, rc.AppDir, upstreamPort)
}
