package host

import "errors"

// Load failures. After any of them the plugin is fully unloaded.
var (
	ErrNoPath       = errors.New("no plugin path set")
	ErrModuleOpen   = errors.New("failed to open plugin module")
	ErrNoEntryPoint = errors.New("plugin entry point not found")
	ErrNullEffect   = errors.New("plugin entry point returned no effect")
	ErrBadMagic     = errors.New("plugin magic number mismatch")
)

var (
	// ErrNotLoaded is returned by operations that need a loaded plugin.
	ErrNotLoaded = errors.New("plugin not loaded")

	// ErrPresetMismatch means a stored plugin identifier does not match
	// the loaded plugin. Nothing is applied when it is returned.
	ErrPresetMismatch = errors.New("preset does not match plugin")

	// ErrInvalidSession means a stored chain layout could not be parsed.
	ErrInvalidSession = errors.New("invalid chain session")
)
