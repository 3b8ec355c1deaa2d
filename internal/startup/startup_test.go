package startup

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchAgent(t *testing.T) {
	plist := launchAgent("/Applications/bridge", []string{"-variant", "manual"})
	assert.Contains(t, plist, "<string>"+appLabel+"</string>")
	assert.Contains(t, plist, "        <string>/Applications/bridge</string>\n        <string>-variant</string>\n        <string>manual</string>\n    </array>")
}

func TestDesktopEntry(t *testing.T) {
	entry := desktopEntry("/usr/bin/bridge", []string{"-variant", "studio"})
	assert.Contains(t, entry, "Exec=/usr/bin/bridge -variant studio\n")
	assert.Contains(t, entry, "Name="+appName)
}

func TestLinuxDesktopPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "autostart", "nocturn-studio.desktop"), linuxDesktopPath())
}

func TestWriteAndRemoveEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autostart", "entry.desktop")

	require.NoError(t, writeEntry(path, "x"))
	assert.True(t, exists(path))

	require.NoError(t, removeEntry(path))
	assert.False(t, exists(path))
	assert.NoError(t, removeEntry(path), "removing twice is fine")
}
