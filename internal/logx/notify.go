package logx

import (
	"github.com/charmbracelet/log"

	"elan/internal/notify"
)

// NotifyHandler renders notifications through logger. When bar is non-nil the
// download notifications drive it instead of being logged.
func NotifyHandler(logger *log.Logger, bar *DownloadBar) notify.Handler {
	return func(n notify.Notification) {
		if bar != nil {
			switch n.Kind {
			case notify.DownloadContentLength:
				bar.Start(n.Bytes)
				return
			case notify.DownloadDataReceived:
				bar.Add(n.Bytes)
				return
			case notify.DownloadFinished:
				bar.Finish()
				return
			}
		}
		if n.Kind == notify.DownloadDataReceived {
			return
		}

		msg := kindStyle(n.Kind).Render(n.String())
		switch n.Level() {
		case notify.LevelVerbose:
			logger.Debug(msg)
		case notify.LevelWarn:
			logger.Warn(msg)
		case notify.LevelError:
			logger.Error(msg)
		default:
			logger.Info(msg)
		}
	}
}
