package webtty

// Option alters a WebTTY at construction.
type Option func(*WebTTY)

// WithPermitWrite allows client input to reach the process. Without it
// the session is read-only and input frames are dropped.
func WithPermitWrite() Option {
	return func(wt *WebTTY) {
		wt.permitWrite = true
	}
}

// WithCredential requires the client's init message to carry the given
// token before a process is spawned.
func WithCredential(credential string) Option {
	return func(wt *WebTTY) {
		wt.credential = credential
	}
}

// WithWindowTitle sets the title pushed to the client on connect.
func WithWindowTitle(title string) Option {
	return func(wt *WebTTY) {
		wt.windowTitle = title
	}
}

// WithPreferences sets the JSON preferences string pushed to the
// client on connect.
func WithPreferences(preferences string) Option {
	return func(wt *WebTTY) {
		wt.preferences = preferences
	}
}

// WithMouseReporting enables the mouse extension tags; mouse events
// are translated to X10 reports and fed to the process as input.
func WithMouseReporting() Option {
	return func(wt *WebTTY) {
		wt.mouse = true
	}
}
