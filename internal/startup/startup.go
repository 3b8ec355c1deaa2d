// Package startup registers the bridge to launch at login.
package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appLabel = "com.nocturn-studio.bridge"
	appName  = "NocturnStudio"
)

// Enable registers the application to launch at system startup with args
func Enable(args ...string) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return writeEntry(macOSPlistPath(), launchAgent(execPath, args))
	case "linux":
		return writeEntry(linuxDesktopPath(), desktopEntry(execPath, args))
	case "windows":
		return enableWindows(execPath, args)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Disable removes the application from system startup
func Disable() error {
	switch runtime.GOOS {
	case "darwin":
		return removeEntry(macOSPlistPath())
	case "linux":
		return removeEntry(linuxDesktopPath())
	case "windows":
		return disableWindows()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// IsEnabled checks if the application is registered for startup
func IsEnabled() bool {
	switch runtime.GOOS {
	case "darwin":
		return exists(macOSPlistPath())
	case "linux":
		return exists(linuxDesktopPath())
	case "windows":
		return exec.Command("reg", "query", windowsRegistryKey, "/v", appName).Run() == nil
	default:
		return false
	}
}

func writeEntry(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func removeEntry(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil // Already disabled
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- macOS ---

func macOSPlistPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", appLabel+".plist")
}

func launchAgent(execPath string, args []string) string {
	var program strings.Builder
	for _, a := range append([]string{execPath}, args...) {
		fmt.Fprintf(&program, "        <string>%s</string>\n", a)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
%s    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, appLabel, program.String())
}

// --- Linux ---

func linuxDesktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", "nocturn-studio.desktop")
}

func desktopEntry(execPath string, args []string) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, appName, strings.Join(append([]string{execPath}, args...), " "))
}

// --- Windows ---

const windowsRegistryKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func enableWindows(execPath string, args []string) error {
	command := fmt.Sprintf("%q", execPath)
	if len(args) > 0 {
		command += " " + strings.Join(args, " ")
	}
	return exec.Command("reg", "add", windowsRegistryKey,
		"/v", appName,
		"/t", "REG_SZ",
		"/d", command,
		"/f").Run()
}

func disableWindows() error {
	output, err := exec.Command("reg", "delete", windowsRegistryKey, "/v", appName, "/f").CombinedOutput()
	// Ignore error if the key doesn't exist
	if err != nil && !strings.Contains(string(output), "unable to find") {
		return err
	}
	return nil
}
