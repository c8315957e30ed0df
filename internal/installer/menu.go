package installer

import (
	"context"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/deploy"
)

const (
	menuFullInstall = "Full Installation"
	menuVerify      = "Verify Installation"
	menuFirewall    = "Configure Firewall"
	menuNotify      = "Send Notification Email"
	menuExit        = "Exit"
)

// RunMenu loops over the operation menu until the operator exits. A fatal
// step error from any operation aborts the loop and bubbles up to main.
func (i *Installer) RunMenu(ctx context.Context) error {
	for {
		color.Cyan("\n=== ThingsBoard Installation Menu ===")

		choice := ""
		prompt := &survey.Select{
			Message: "Select an operation:",
			Options: []string{menuFullInstall, menuVerify, menuFirewall, menuNotify, menuExit},
		}
		if err := survey.AskOne(prompt, &choice); err != nil {
			return err
		}

		switch choice {
		case menuFullInstall:
			if err := i.RunFull(ctx); err != nil {
				return err
			}
		case menuVerify:
			if err := i.Verify(ctx); err != nil {
				return err
			}
		case menuFirewall:
			if err := i.ConfigureFirewall(ctx, deploy.DefaultHTTPPort, deploy.DefaultMQTTPort, deploy.DefaultCoAPPort); err != nil {
				return err
			}
		case menuNotify:
			i.SendNotification(true)
		case menuExit:
			color.Red("Exiting. Goodbye!")
			return nil
		}
	}
}
