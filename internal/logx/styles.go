package logx

import (
	"github.com/charmbracelet/lipgloss"

	"elan/internal/notify"
)

var (
	// NameStyle highlights toolchain names in command output.
	NameStyle = lipgloss.NewStyle().Bold(true)

	kindStyles = map[notify.Kind]lipgloss.Style{
		notify.InstalledToolchain:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		notify.UpdatedToolchain:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		notify.UninstalledToolchain: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		notify.InstallingToolchain:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		notify.UpdatingToolchain:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		notify.UninstallingToolchain: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		notify.UpdateHashMatches:      lipgloss.NewStyle().Faint(true),
		notify.UsingExistingToolchain: lipgloss.NewStyle().Faint(true),
		notify.UnchangedToolchain:     lipgloss.NewStyle().Faint(true),

		notify.ToolchainNotInstalled: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		notify.TelemetryCleanupError: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
)

// StatusStyle returns the style for a toolchain update status.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "installed", "updated":
		return kindStyles[notify.InstalledToolchain]
	case "unchanged":
		return kindStyles[notify.UnchangedToolchain]
	default:
		return lipgloss.NewStyle()
	}
}

func kindStyle(k notify.Kind) lipgloss.Style {
	if s, ok := kindStyles[k]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
