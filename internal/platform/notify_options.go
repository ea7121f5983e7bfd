package platform

import "time"

// DefaultAppName is reported as the sending application when Options.AppName
// is empty.
const DefaultAppName = "overpaint"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification center.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification where the platform supports it.
	IconPath string
	// Timeout is how long the notification stays visible. Zero leaves the
	// choice to the platform.
	Timeout time.Duration
	// Transient notifications are not kept in the notification history.
	Transient bool
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
