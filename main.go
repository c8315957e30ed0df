package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/config"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/deploy"
	"github.com/fvhmifvreed/thingsboard-deployment/internal/installer"
)

var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "tb-installer",
		Short: "ThingsBoard guided deployment tool",
		Long: `tb-installer provisions a ThingsBoard IoT platform stack on an Ubuntu host:
it installs Docker, renders the deployment descriptor, starts the stack and
opens the firewall ports. Run without arguments for the interactive menu.`,
		Run: func(cmd *cobra.Command, args []string) {
			inst, ctx := setup(cfgPath)
			fatalOn(inst.RunMenu(ctx))
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "tb-installer.yaml", "config file path")

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Run the full installation pipeline",
		Run: func(cmd *cobra.Command, args []string) {
			inst, ctx := setup(cfgPath)
			fatalOn(inst.RunFull(ctx))
			fmt.Println("\n✓ Installation completed successfully!")
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the running containers and report the access URL",
		Run: func(cmd *cobra.Command, args []string) {
			inst, ctx := setup(cfgPath)
			fatalOn(inst.Verify(ctx))
		},
	}

	var httpPort, mqttPort, coapPort string
	firewallCmd := &cobra.Command{
		Use:   "firewall",
		Short: "Allow the stack ports and enable the firewall",
		Run: func(cmd *cobra.Command, args []string) {
			inst, ctx := setup(cfgPath)
			fatalOn(inst.ConfigureFirewall(ctx, httpPort, mqttPort, coapPort))
		},
	}
	firewallCmd.Flags().StringVar(&httpPort, "http", deploy.DefaultHTTPPort, "HTTP port")
	firewallCmd.Flags().StringVar(&mqttPort, "mqtt", deploy.DefaultMQTTPort, "MQTT port")
	firewallCmd.Flags().StringVar(&coapPort, "coap", deploy.DefaultCoAPPort, "CoAP port")

	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a status notification email",
		Run: func(cmd *cobra.Command, args []string) {
			inst, _ := setup(cfgPath)
			inst.SendNotification(true)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tb-installer %s (commit: %s)\n", version, commit)
		},
	}

	rootCmd.AddCommand(installCmd, verifyCmd, firewallCmd, notifyCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(cfgPath string) (*installer.Installer, context.Context) {
	cfg := config.Load(cfgPath)
	return installer.New(cfg, newLogger(cfg)), context.Background()
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = "15:04:05"
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(cfg.LogLevel).With().Timestamp().Logger()
}

// fatalOn is the single place the process terminates on a fatal step error.
// Components never exit; they return errors that unwind to here.
func fatalOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
