package version

// version is set at build time with
// -ldflags "-X github.com/ricochet-mp/ricochet/pkg/version.version=v1.2.3"
var version = "dev"

// Get returns the version of the binary.
func Get() string {
	return version
}
