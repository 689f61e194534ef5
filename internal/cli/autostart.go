package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nanobar-io/nanobar/internal/autostart"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage starting the daemon at login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start the daemon at login",
	Args:  cobra.NoArgs,
	RunE:  runAutostartEnable,
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop starting the daemon at login",
	Args:  cobra.NoArgs,
	RunE:  runAutostartDisable,
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon starts at login",
	Args:  cobra.NoArgs,
	RunE:  runAutostartStatus,
}

func init() {
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
}

func runAutostartEnable(cmd *cobra.Command, args []string) error {
	m, err := autostart.New()
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate nanobar: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	if err := m.Install(exe); err != nil {
		return err
	}
	fmt.Println(styleSuccess.Render("autostart enabled"))
	fmt.Printf("  %s %s\n", styleLabel.Render("Agent:"), m.Path())
	return nil
}

func runAutostartDisable(cmd *cobra.Command, args []string) error {
	m, err := autostart.New()
	if err != nil {
		return err
	}
	if err := m.Uninstall(); err != nil {
		return err
	}
	fmt.Println("autostart disabled")
	return nil
}

func runAutostartStatus(cmd *cobra.Command, args []string) error {
	m, err := autostart.New()
	if err != nil {
		return err
	}
	if m.IsInstalled() {
		fmt.Printf("%s %s\n", styleLabel.Render("autostart:"), styleSuccess.Render("enabled"))
		fmt.Printf("  %s %s\n", styleLabel.Render("Agent:"), m.Path())
		return nil
	}
	fmt.Printf("%s %s\n", styleLabel.Render("autostart:"), styleValue.Render("disabled"))
	return nil
}
