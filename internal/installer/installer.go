package installer

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/config"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/deploy"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/execx"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/notify"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/preflight"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/sysprep"
)

// platformUser is the ThingsBoard account created during a full run.
const platformUser = "thingsboard_user"

// Installer sequences the provisioning components. Every fatal step error is
// returned unwound to main, which terminates the process; there is no
// rollback, later steps assume earlier ones succeeded.
type Installer struct {
	log       zerolog.Logger
	cfg       config.Config
	runner    *execx.Runner
	preflight *preflight.Checker
	sysprep   *sysprep.Provisioner
	deploy    *deploy.Manager
	notifier  *notify.Mailer
}

func New(cfg config.Config, log zerolog.Logger) *Installer {
	runner := execx.NewRunner(log)
	return &Installer{
		log:       log,
		cfg:       cfg,
		runner:    runner,
		preflight: preflight.New(log, runner),
		sysprep:   sysprep.New(log, runner),
		deploy:    deploy.NewManager(log, runner, cfg.ComposePath),
		notifier:  notify.NewMailer(log, cfg.SMTP, cfg.NotifyTo),
	}
}

// RunFull performs the complete installation pipeline.
func (i *Installer) RunFull(ctx context.Context) error {
	i.showWelcome()

	i.preflight.Check(ctx)

	if err := i.setupPlatformUser(); err != nil {
		return fmt.Errorf("platform user setup failed: %w", err)
	}

	if err := i.sysprep.UpdateSystem(ctx); err != nil {
		return fmt.Errorf("system update failed: %w", err)
	}

	if err := i.sysprep.InstallDocker(ctx); err != nil {
		return fmt.Errorf("docker installation failed: %w", err)
	}

	if err := i.deploy.BackupExisting(); err != nil {
		return fmt.Errorf("descriptor backup failed: %w", err)
	}

	cfg, err := deploy.Gather()
	if err != nil {
		return fmt.Errorf("configuration gathering failed: %w", err)
	}

	if _, err := i.deploy.CreateNetwork(ctx); err != nil {
		return fmt.Errorf("network creation failed: %w", err)
	}

	if err := i.deploy.Deploy(ctx, cfg); err != nil {
		return fmt.Errorf("deployment failed: %w", err)
	}

	if err := i.deploy.ConfigureFirewall(ctx, cfg.HTTPPort, cfg.MQTTPort, cfg.CoAPPort); err != nil {
		return fmt.Errorf("firewall configuration failed: %w", err)
	}

	if err := i.deploy.Verify(ctx, cfg.HTTPPort); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	i.SendNotification(true)
	return nil
}

// Verify reports the stack status with the default HTTP port.
func (i *Installer) Verify(ctx context.Context) error {
	return i.deploy.Verify(ctx, deploy.DefaultHTTPPort)
}

// ConfigureFirewall opens the given ports and enables the firewall.
func (i *Installer) ConfigureFirewall(ctx context.Context, httpPort, mqttPort, coapPort string) error {
	return i.deploy.ConfigureFirewall(ctx, httpPort, mqttPort, coapPort)
}

// SendNotification emails the run status to the configured address. The error
// is logged and deliberately dropped: a failed notification never changes the
// outcome of the run.
func (i *Installer) SendNotification(success bool) {
	if err := i.notifier.Notify(success); err != nil {
		i.log.Error().Err(err).Msg("Failed to send notification email")
	}
}

func (i *Installer) showWelcome() {
	color.Cyan("\n=== ThingsBoard Installation ===\n")
	fmt.Println("This tool provisions a ThingsBoard stack on this host:")
	fmt.Println("  1. Pre-installation checks")
	fmt.Println("  2. System update and Docker installation")
	fmt.Println("  3. Deployment descriptor and stack start")
	fmt.Println("  4. Firewall configuration")
	fmt.Println()
}

func (i *Installer) setupPlatformUser() error {
	password := ""
	prompt := &survey.Password{
		Message: fmt.Sprintf("Enter password for ThingsBoard user %q:", platformUser),
	}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	// The password is consumed by the platform's own first-run setup; the
	// installer only confirms the account name.
	i.log.Info().Str("username", platformUser).Msg("ThingsBoard credentials configured")
	return nil
}
