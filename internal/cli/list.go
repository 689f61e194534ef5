package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/nanobar-io/nanobar/internal/menubar"
	"github.com/nanobar-io/nanobar/internal/models"
)

const appColumnWidth = 20

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all menu bar items",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	items, err := menubar.NewLister().List(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println(styleHint.Render("No menu bar items found."))
		return nil
	}

	layout := menubar.NewLayout(items, e.settings.Positioning.OwnerName)
	fmt.Println(renderTable(
		[]string{"#", "App", "PID", "Window", "X", "W", ""},
		listRows(layout),
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Println(styleHint.Render("Use the # column with 'nanobar hide <n>' to hide by position."))
	return nil
}

func listRows(layout *menubar.Layout) [][]string {
	rows := make([][]string, 0, len(layout.Items))
	for i, item := range layout.Items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ansi.Truncate(item.OwnerName, appColumnWidth, "…"),
			strconv.Itoa(item.OwnerPID),
			strconv.FormatUint(uint64(item.WindowID), 10),
			formatCoord(item.X),
			formatCoord(item.Width),
			styleMarker(layout.Marker(i)),
		})
	}
	return rows
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func styleMarker(marker string) string {
	switch marker {
	case menubar.MarkerDivider, menubar.MarkerPusher:
		return markerDivider.Render(marker)
	case menubar.MarkerHidden:
		return markerHidden.Render(marker)
	case menubar.MarkerWillHide:
		return markerWillHide.Render(marker)
	}
	return marker
}

func ownerNames(items []models.MenuBarItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.OwnerName)
	}
	return names
}
