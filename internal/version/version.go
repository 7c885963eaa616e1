// Package version exposes the build's tool-version string, used to key
// cache invalidation.
package version

// Current is the tool-version string participating in cache-validity
// checks. Overridden at build time via:
//
//	go build -ldflags "-X github.com/zxqfox/enb/internal/version.Current=1.2.3"
var Current = "dev"
