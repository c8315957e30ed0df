package deploy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/execx"
)

// BackupSuffix is appended to the previous descriptor before overwriting.
const BackupSuffix = ".bak"

// Runner executes provisioning steps and probes.
type Runner interface {
	Run(ctx context.Context, step execx.Step) error
	Capture(ctx context.Context, name string, args ...string) (string, error)
}

// Manager owns the descriptor on disk and the operations that bring the
// stack up: backup, network, deploy, firewall, verify.
type Manager struct {
	log         zerolog.Logger
	runner      Runner
	composePath string
}

func NewManager(log zerolog.Logger, runner Runner, composePath string) *Manager {
	return &Manager{log: log, runner: runner, composePath: composePath}
}

// BackupExisting preserves a previous descriptor by renaming it. A missing
// descriptor is a no-op.
func (m *Manager) BackupExisting() error {
	if _, err := os.Stat(m.composePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", m.composePath, err)
	}
	backup := m.composePath + BackupSuffix
	if err := os.Rename(m.composePath, backup); err != nil {
		return fmt.Errorf("backup descriptor: %w", err)
	}
	m.log.Info().Str("backup", backup).Msg("Existing descriptor backed up")
	return nil
}

// CreateNetwork creates the stack's Docker network. An already existing
// network counts as success.
func (m *Manager) CreateNetwork(ctx context.Context) (string, error) {
	step := execx.Step{
		Name:        "docker-network",
		Cmd:         "docker",
		Args:        []string{"network", "create", NetworkName},
		Description: fmt.Sprintf("Creating Docker network %q", NetworkName),
		Tolerant:    true,
	}
	if err := m.runner.Run(ctx, step); err != nil {
		return "", err
	}
	return NetworkName, nil
}

// Deploy renders the descriptor, writes it (overwriting any current file)
// and brings the stack up detached.
func (m *Manager) Deploy(ctx context.Context, cfg Config) error {
	data, err := RenderDescriptor(cfg)
	if err != nil {
		return fmt.Errorf("render descriptor: %w", err)
	}
	if err := os.WriteFile(m.composePath, data, 0o644); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	m.log.Info().Str("path", m.composePath).Msg("Descriptor written")

	return m.runner.Run(ctx, execx.Step{
		Name:        "compose-up",
		Cmd:         "docker-compose",
		Args:        []string{"-f", m.composePath, "up", "-d"},
		Description: "Deploying ThingsBoard with Docker Compose",
	})
}

// FirewallSteps is one allow rule per port followed by a single enable.
// The enable must come last; rules added after enabling would leave a window
// where the stack ports are blocked.
func FirewallSteps(httpPort, mqttPort, coapPort string) []execx.Step {
	steps := make([]execx.Step, 0, 4)
	for _, p := range []struct{ proto, port string }{
		{"HTTP", httpPort},
		{"MQTT", mqttPort},
		{"CoAP", coapPort},
	} {
		steps = append(steps, execx.Step{
			Name:        "ufw-allow-" + strings.ToLower(p.proto),
			Cmd:         "sudo",
			Args:        []string{"ufw", "allow", p.port},
			Description: fmt.Sprintf("Allowing %s port %s", p.proto, p.port),
		})
	}
	return append(steps, execx.Step{
		Name:        "ufw-enable",
		Cmd:         "sudo",
		Args:        []string{"ufw", "enable"},
		Description: "Enabling the firewall",
	})
}

// ConfigureFirewall opens the three stack ports and enables the firewall.
func (m *Manager) ConfigureFirewall(ctx context.Context, httpPort, mqttPort, coapPort string) error {
	for _, step := range FirewallSteps(httpPort, mqttPort, coapPort) {
		if err := m.runner.Run(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// Verify reports the running containers and the expected access URL.
func (m *Manager) Verify(ctx context.Context, httpPort string) error {
	m.log.Info().Msg("Checking running containers")
	out, err := m.runner.Capture(ctx, "docker-compose", "-f", m.composePath, "ps")
	if err != nil {
		return fmt.Errorf("query container status: %w", err)
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line != "" {
			m.log.Info().Msg(line)
		}
	}
	m.log.Info().Msgf("ThingsBoard should now be accessible via http://<your-ip>:%s", httpPort)
	return nil
}
