package stages

import (
	"context"
	"fmt"

	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/transport"
)

const upstreamPort = 8000

// ConfigureProxy writes the nginx site for the application, enables it, and
// reloads nginx after a config check. Rollback removes the site and reloads
// so the proxy never serves a half-deployed application.
func ConfigureProxy() engine.Stage {
	return engine.Stage{
		Name:    "configure-proxy",
		Summary: "write nginx site, nginx -t, reload",
		Action: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) (*transport.Result, error) {
			cmd := fmt.Sprintf(`set -e
sudo tee /etc/nginx/sites-available/%[1]s >/dev/null <<'EOF'
%[2]s
EOF
sudo ln -sf /etc/nginx/sites-available/%[1]s /etc/nginx/sites-enabled/%[1]s
sudo rm -f /etc/nginx/sites-enabled/default
sudo nginx -t
sudo systemctl reload nginx`, rc.AppName, nginxSite(rc))
			return tr.Execute(ctx, cmd, rc.CommandTimeout)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext, tr transport.Transport) error {
			cmd := fmt.Sprintf(
				"sudo rm -f /etc/nginx/sites-enabled/%[1]s /etc/nginx/sites-available/%[1]s && sudo systemctl reload nginx",
				rc.AppName,
			)
			_, err := tr.Execute(ctx, cmd, rc.CommandTimeout)
			return err
		},
	}
}

func nginxSite(rc *engine.RunContext) string {
	return fmt.Sprintf(`server {
    listen 80;
    server_name %s;

    location / {
        proxy_pass http://127.0.0.1:%d;
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
    }
}`, rc.Domain, upstreamPort)
}
