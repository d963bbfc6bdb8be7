package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitNilHandler(t *testing.T) {
	var h Handler
	assert.NotPanics(t, func() { h.Emit(Notification{Kind: InstalledToolchain}) })
}

func TestEmitForwards(t *testing.T) {
	var got []Kind
	h := Handler(func(n Notification) { got = append(got, n.Kind) })
	h.Emit(Notification{Kind: InstallingToolchain})
	h.Emit(Notification{Kind: InstalledToolchain})
	assert.Equal(t, []Kind{InstallingToolchain, InstalledToolchain}, got)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelVerbose, Notification{Kind: ToolchainDirectory}.Level())
	assert.Equal(t, LevelVerbose, Notification{Kind: DownloadDataReceived}.Level())
	assert.Equal(t, LevelInfo, Notification{Kind: InstallingToolchain}.Level())
	assert.Equal(t, LevelWarn, Notification{Kind: TelemetryCleanupError}.Level())
}

func TestStrings(t *testing.T) {
	cases := map[string]Notification{
		"installing toolchain 'stable'":               {Kind: InstallingToolchain, Toolchain: "stable"},
		"toolchain 'stable' installed":                {Kind: InstalledToolchain, Toolchain: "stable"},
		"no toolchain installed for 'dev'":            {Kind: ToolchainNotInstalled, Toolchain: "dev"},
		"toolchain directory: '/x'":                   {Kind: ToolchainDirectory, Path: "/x"},
		"unable to remove old telemetry files: 'bad'": {Kind: TelemetryCleanupError, Err: errors.New("bad")},
		"override toolchain for '/p' set to 'dev'":    {Kind: SetOverrideToolchain, Path: "/p", Toolchain: "dev"},
	}
	for want, n := range cases {
		assert.Equal(t, want, n.String())
	}
}
