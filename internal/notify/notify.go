// Package notify defines the typed events the toolchain core and its
// collaborators emit while they work. Rendering them is the caller's job.
package notify

import "fmt"

// Level orders notifications by how loudly they should be shown.
type Level int

const (
	LevelVerbose Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Kind identifies a notification.
type Kind int

const (
	LookingForToolchain Kind = iota
	InstallingToolchain
	UpdatingToolchain
	UsingExistingToolchain
	InstalledToolchain
	UpdatedToolchain
	UnchangedToolchain
	UpdateHashMatches
	UninstallingToolchain
	UninstalledToolchain
	ToolchainNotInstalled
	ToolchainDirectory
	TelemetryCleanupError

	DownloadingFile
	DownloadContentLength
	DownloadDataReceived
	DownloadFinished
	ExtractingArchive
	UsingCachedRelease
	CopyingDirectory
	LinkingDirectory
	RemovingDirectory
	SetDefaultToolchain
	SetOverrideToolchain
)

// Notification is a single event. Only the fields relevant to Kind are set.
type Notification struct {
	Kind      Kind
	Toolchain string
	Path      string
	URL       string
	Bytes     int64
	Err       error
}

// Handler receives notifications.
type Handler func(Notification)

// Discard drops every notification.
func Discard(Notification) {}

// Emit calls h when it is non-nil.
func (h Handler) Emit(n Notification) {
	if h != nil {
		h(n)
	}
}

// Level reports how prominent n is.
func (n Notification) Level() Level {
	switch n.Kind {
	case ToolchainDirectory, LookingForToolchain, UpdateHashMatches,
		DownloadingFile, DownloadContentLength, DownloadDataReceived,
		DownloadFinished, ExtractingArchive, UsingCachedRelease,
		CopyingDirectory, LinkingDirectory, RemovingDirectory:
		return LevelVerbose
	case TelemetryCleanupError:
		return LevelWarn
	default:
		return LevelInfo
	}
}

func (n Notification) String() string {
	switch n.Kind {
	case LookingForToolchain:
		return fmt.Sprintf("looking for installed toolchain '%s'", n.Toolchain)
	case InstallingToolchain:
		return fmt.Sprintf("installing toolchain '%s'", n.Toolchain)
	case UpdatingToolchain:
		return fmt.Sprintf("updating existing install for '%s'", n.Toolchain)
	case UsingExistingToolchain:
		return fmt.Sprintf("using existing install for '%s'", n.Toolchain)
	case InstalledToolchain:
		return fmt.Sprintf("toolchain '%s' installed", n.Toolchain)
	case UpdatedToolchain:
		return fmt.Sprintf("toolchain '%s' updated", n.Toolchain)
	case UnchangedToolchain:
		return fmt.Sprintf("toolchain '%s' unchanged", n.Toolchain)
	case UpdateHashMatches:
		return "toolchain is already up to date"
	case UninstallingToolchain:
		return fmt.Sprintf("uninstalling toolchain '%s'", n.Toolchain)
	case UninstalledToolchain:
		return fmt.Sprintf("toolchain '%s' uninstalled", n.Toolchain)
	case ToolchainNotInstalled:
		return fmt.Sprintf("no toolchain installed for '%s'", n.Toolchain)
	case ToolchainDirectory:
		return fmt.Sprintf("toolchain directory: '%s'", n.Path)
	case TelemetryCleanupError:
		return fmt.Sprintf("unable to remove old telemetry files: '%v'", n.Err)
	case DownloadingFile:
		return fmt.Sprintf("downloading file from: '%s'", n.URL)
	case DownloadContentLength:
		return fmt.Sprintf("download size is: '%d'", n.Bytes)
	case DownloadDataReceived:
		return fmt.Sprintf("received %d bytes", n.Bytes)
	case DownloadFinished:
		return "download finished"
	case ExtractingArchive:
		return fmt.Sprintf("extracting '%s'", n.Path)
	case UsingCachedRelease:
		return fmt.Sprintf("using cached release metadata for '%s'", n.Toolchain)
	case CopyingDirectory:
		return fmt.Sprintf("copying directory '%s'", n.Path)
	case LinkingDirectory:
		return fmt.Sprintf("linking directory '%s'", n.Path)
	case RemovingDirectory:
		return fmt.Sprintf("removing directory '%s'", n.Path)
	case SetDefaultToolchain:
		return fmt.Sprintf("default toolchain set to '%s'", n.Toolchain)
	case SetOverrideToolchain:
		return fmt.Sprintf("override toolchain for '%s' set to '%s'", n.Path, n.Toolchain)
	default:
		return fmt.Sprintf("notification %d", n.Kind)
	}
}
