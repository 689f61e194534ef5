package autostart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallAndUninstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "LaunchAgents")
	m := NewAt(dir)

	assert.Equal(t, filepath.Join(dir, "io.nanobar.agent.plist"), m.Path())
	assert.False(t, m.IsInstalled())

	require.NoError(t, m.Install("/Applications/Tools & Co/nanobar"))
	assert.True(t, m.IsInstalled())

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	plist := string(data)
	assert.Contains(t, plist, "<string>io.nanobar.agent</string>")
	assert.Contains(t, plist, "<string>/Applications/Tools &amp; Co/nanobar</string>")
	assert.Contains(t, plist, "<string>daemon</string>")
	assert.Contains(t, plist, "<key>RunAtLoad</key>\n\t<true/>")

	require.NoError(t, m.Uninstall())
	assert.False(t, m.IsInstalled())
	require.NoError(t, m.Uninstall(), "uninstalling twice is fine")
}

func TestInstallRejectsRelativePath(t *testing.T) {
	m := NewAt(t.TempDir())
	assert.Error(t, m.Install("nanobar"))
	assert.False(t, m.IsInstalled())
}
