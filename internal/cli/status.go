package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nanobar-io/nanobar/internal/menubar"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if !e.ctl.Running(ctx) {
		fmt.Printf("%s %s\n", styleLabel.Render("daemon:"), styleValue.Render("not running"))
		fmt.Println(styleHint.Render("use ") + styleCommand.Render("nanobar start") + styleHint.Render(" to begin"))
		return nil
	}

	state, err := e.ctl.State(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", styleLabel.Render("daemon:"), styleSuccess.Render("running"))
	fmt.Printf("%s  %s\n", styleLabel.Render("state:"), styleValue.Render(state.String()))

	if info, err := e.ctl.PID(); err != nil {
		e.logger.Warn("failed to read PID record", "error", err)
	} else if info != nil {
		fmt.Printf("%s    %d\n", styleLabel.Render("pid:"), info.PID)
		fmt.Printf("%s  %s\n", styleLabel.Render("since:"), humanize.Time(info.StartedAt))
	}

	items, err := menubar.NewLister().List(ctx)
	if err != nil {
		e.logger.Warn("failed to list menu bar items", "error", err)
		return nil
	}
	hidden, visible, ok := menubar.NewLayout(items, e.settings.Positioning.OwnerName).Split()
	if !ok {
		return nil
	}

	if len(hidden) > 0 {
		fmt.Printf("\nwill hide (%d):\n", len(hidden))
		for _, name := range ownerNames(hidden) {
			fmt.Printf("  - %s\n", name)
		}
	}
	fmt.Printf("\nvisible (%d):\n", len(visible))
	for _, name := range ownerNames(visible) {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}
