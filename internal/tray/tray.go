package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// Callbacks for tray menu actions
type Callbacks struct {
	OnOpen          func()
	OnGenerate      func()
	OnToggleLEDs    func(enabled bool)
	OnToggleStartup func(enabled bool)
	OnQuit          func()
}

// Menu builds the tray menu for a device name
func Menu(device string, ledsEnabled, openAtStartup bool, callbacks Callbacks) *fyne.Menu {
	openItem := fyne.NewMenuItem(fmt.Sprintf("Open %s", device), func() {
		if callbacks.OnOpen != nil {
			callbacks.OnOpen()
		}
	})

	generateItem := fyne.NewMenuItem("Regenerate Host Scripts", func() {
		if callbacks.OnGenerate != nil {
			callbacks.OnGenerate()
		}
	})

	ledItem := fyne.NewMenuItem("LED Feedback", nil)
	ledItem.Checked = ledsEnabled

	startupItem := fyne.NewMenuItem("Open at Startup", nil)
	startupItem.Checked = openAtStartup

	quitItem := fyne.NewMenuItem("Quit", func() {
		if callbacks.OnQuit != nil {
			callbacks.OnQuit()
		}
	})

	menu := fyne.NewMenu(device,
		openItem,
		generateItem,
		fyne.NewMenuItemSeparator(),
		ledItem,
		startupItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	// Set the action after menu is created so we can refresh it
	ledItem.Action = func() {
		ledItem.Checked = !ledItem.Checked
		if callbacks.OnToggleLEDs != nil {
			callbacks.OnToggleLEDs(ledItem.Checked)
		}
		menu.Refresh()
	}
	startupItem.Action = func() {
		startupItem.Checked = !startupItem.Checked
		if callbacks.OnToggleStartup != nil {
			callbacks.OnToggleStartup(startupItem.Checked)
		}
		menu.Refresh()
	}

	return menu
}

// Setup initializes the system tray using Fyne's built-in support. It
// returns false when the app is not running on a desktop driver.
func Setup(app fyne.App, menu *fyne.Menu) bool {
	desk, ok := app.(desktop.App)
	if !ok {
		return false
	}
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.MediaMusicIcon())
	return true
}
