// Package sysprep brings an Ubuntu host to the point where the ThingsBoard
// stack can be deployed: packages up to date, Docker installed and enabled.
package sysprep

import (
	"context"
	"os/user"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/execx"
)

// Runner executes provisioning steps; *execx.Runner in production.
type Runner interface {
	Run(ctx context.Context, step execx.Step) error
}

type Provisioner struct {
	log    zerolog.Logger
	runner Runner
}

func New(log zerolog.Logger, runner Runner) *Provisioner {
	return &Provisioner{log: log, runner: runner}
}

// UpdateSteps is the package refresh + upgrade sequence.
func UpdateSteps() []execx.Step {
	return []execx.Step{
		{
			Name:        "apt-update",
			Cmd:         "sudo",
			Args:        []string{"apt-get", "update"},
			Description: "Updating package index",
		},
		{
			Name:        "apt-upgrade",
			Cmd:         "sudo",
			Args:        []string{"apt-get", "upgrade", "-y"},
			Description: "Upgrading installed packages",
		},
	}
}

// InstallDockerSteps installs Docker, enables its service and adds the given
// user to the docker group. Group creation is tolerant because the group may
// already exist.
func InstallDockerSteps(username string) []execx.Step {
	return []execx.Step{
		{
			Name:        "install-docker",
			Cmd:         "sudo",
			Args:        []string{"apt-get", "install", "-y", "docker.io"},
			Description: "Installing Docker",
		},
		{
			Name:        "docker-start",
			Cmd:         "sudo",
			Args:        []string{"systemctl", "start", "docker"},
			Description: "Starting Docker service",
		},
		{
			Name:        "docker-enable",
			Cmd:         "sudo",
			Args:        []string{"systemctl", "enable", "docker"},
			Description: "Enabling Docker service",
		},
		{
			Name:        "docker-group",
			Cmd:         "sudo",
			Args:        []string{"groupadd", "docker"},
			Description: "Creating docker group (if not exists)",
			Tolerant:    true,
		},
		{
			Name:        "docker-group-member",
			Cmd:         "sudo",
			Args:        []string{"usermod", "-aG", "docker", username},
			Description: "Adding current user to docker group",
		},
	}
}

// UpdateSystem refreshes and upgrades the OS packages.
func (p *Provisioner) UpdateSystem(ctx context.Context) error {
	return p.runSteps(ctx, "Updating system", UpdateSteps())
}

// InstallDocker installs and enables Docker for the current user.
func (p *Provisioner) InstallDocker(ctx context.Context) error {
	return p.runSteps(ctx, "Installing Docker", InstallDockerSteps(currentUser()))
}

func (p *Provisioner) runSteps(ctx context.Context, label string, steps []execx.Step) error {
	bar := progressbar.Default(int64(len(steps)), label)
	for _, step := range steps {
		bar.Describe(step.Description)
		if err := p.runner.Run(ctx, step); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "root"
}
