package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanobar-io/nanobar/internal/ipc"
	"github.com/nanobar-io/nanobar/internal/menubar"
	"github.com/nanobar-io/nanobar/internal/position"
	"github.com/nanobar-io/nanobar/internal/prefs"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the nanobar daemon (adds a '|' divider to the menu bar)",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var hideCmd = &cobra.Command{
	Use:   "hide [apps...]",
	Short: "Hide menu bar items left of the divider",
	Long: `Hide menu bar items left of the divider.

With arguments, the divider first moves just right of the rightmost named
app. Apps are matched by a case-insensitive fragment of their name or by
their number in 'nanobar list'.`,
	RunE: runHide,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all hidden items",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon and remove the divider",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runStart(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if e.ctl.Running(ctx) {
		fmt.Println("daemon already running")
		return nil
	}
	if err := e.ctl.Start(ctx); err != nil {
		return err
	}
	fmt.Println(styleSuccess.Render("daemon started"))
	return nil
}

func runHide(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if len(args) > 0 {
		resolver := position.New(menubar.NewLister(), prefs.NewDefaults(), e.ctl, e.settings, e.logger)
		if _, err := resolver.Hide(ctx, args, printPlan); err != nil {
			return err
		}
	}

	if err := e.ctl.Start(ctx); err != nil {
		return err
	}
	if err := e.ctl.Command(ctx, ipc.RequestHide); err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println("items left of divider hidden")
	}
	return nil
}

// printPlan reports skipped targets on stderr and the hidden set on stdout.
func printPlan(plan *position.Plan) {
	if plan == nil {
		return
	}
	for _, name := range plan.NotFound {
		fmt.Fprintln(os.Stderr, styleWarning.Render("  not found in menu bar:"), name)
	}
	for _, u := range plan.NoBundle {
		fmt.Fprintln(os.Stderr, styleWarning.Render("  cannot find bundle ID for:"), u.Owner)
	}
	for _, u := range plan.NoPosition {
		fmt.Fprintf(os.Stderr, "%s %s (%s)\n", styleWarning.Render("  no saved position for:"), u.Owner, u.BundleID)
	}
	if len(plan.Matched) == 0 {
		return
	}

	line := "hiding: " + strings.Join(plan.Matched, ", ")
	if len(plan.AlsoHidden) > 0 {
		line += " (also: " + strings.Join(plan.AlsoHidden, ", ") + ")"
	}
	fmt.Println(line)
}

func runShow(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	if err := e.ctl.Command(commandContext(cmd), ipc.RequestShow); err != nil {
		return err
	}
	fmt.Println("all items visible")
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if !e.ctl.Running(ctx) {
		fmt.Println("daemon not running")
		return nil
	}
	if err := e.ctl.Stop(ctx); err != nil {
		return err
	}
	fmt.Println("daemon stopped")
	return nil
}
