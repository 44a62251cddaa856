// Package constants defines shared constants and default values
// used throughout the layerhash history adapter.
package constants

import (
	"os"
	"strings"
)

// EnvPrefix is prepended to every environment variable read by the config loader.
const EnvPrefix = "LAYERHASH_"

// ModeEnvVar selects the runtime mode. The value Development lowers the
// default log level to debug.
const ModeEnvVar = EnvPrefix + "MODE"

// Development is the ModeEnvVar value for development mode.
const Development = "dev"

// IsDevMode reports whether ModeEnvVar is set to Development, ignoring case.
func IsDevMode() bool {
	return strings.EqualFold(os.Getenv(ModeEnvVar), Development)
}

// Browser event names the adapter subscribes to.
const (
	EventPopState   = "popstate"
	EventHashChange = "hashchange"
)

// StartPath is the fullPath of the placeholder route that seeds the layer
// stack before the first resolution completes.
const StartPath = "/"

// FallbackMarker is the prefix a base-relative location must carry to count
// as fragment-addressed.
const FallbackMarker = "/#"

// ReservedURIChars are left percent-encoded by fragment decoding.
const ReservedURIChars = ";/?:@&=+$,#"
