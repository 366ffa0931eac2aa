package version

// Version is the build version of the silverfox binaries.
// Set at build time using ldflags:
// -ldflags "-X github.com/silverfox-lab/silverfox/internal/version.Version=1.2.3"
// The default value "dev" indicates a development build.
var Version = "dev"

// GetVersion returns the current build version.
func GetVersion() string {
	return Version
}
