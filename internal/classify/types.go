package classify

import (
	"fmt"

	"git.home.luguber.info/inful/glueregen/internal/foundation"
)

// Platform is the operating system a source file applies to.
type Platform string

const (
	PlatformNone    Platform = "" // cross-platform
	PlatformMacOS   Platform = "macos"
	PlatformIOS     Platform = "ios"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformAndroid Platform = "android"
	PlatformOHOS    Platform = "ohos"
)

// KnownPlatforms lists every platform directory name recognised under platform/.
var KnownPlatforms = []Platform{
	PlatformMacOS,
	PlatformIOS,
	PlatformLinux,
	PlatformWindows,
	PlatformAndroid,
	PlatformOHOS,
}

// IsKnown reports whether p is one of KnownPlatforms.
func (p Platform) IsKnown() bool {
	for _, k := range KnownPlatforms {
		if p == k {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	if p == PlatformNone {
		return "none"
	}
	return string(p)
}

var platformNormalizer = func() *foundation.Normalizer[Platform] {
	values := map[string]Platform{
		"darwin":    PlatformMacOS,
		"osx":       PlatformMacOS,
		"harmonyos": PlatformOHOS,
	}
	for _, p := range KnownPlatforms {
		values[string(p)] = p
	}
	return foundation.NewNormalizer(values, PlatformNone)
}()

// ParsePlatform normalizes and validates a platform identifier. A few
// common aliases (darwin, osx, harmonyos) are accepted.
func ParsePlatform(s string) (Platform, error) {
	p, err := platformNormalizer.NormalizeWithError(s)
	if err != nil {
		return PlatformNone, fmt.Errorf("%w: %w", ErrUnknownPlatform, err)
	}
	return p, nil
}

// Category is the role a source file plays in the generated aggregators.
type Category string

const (
	CategoryCAPI       Category = "capi"       // plain-C surface, headers and sources
	CategoryCPPHeader  Category = "cpp-header" // C++ interface headers
	CategoryPlatform   Category = "platform"   // platform/<target> sources
	CategoryFoundation Category = "foundation" // foundation/ utility sources
	CategoryCore       Category = "core"       // everything else
)

// ImplementationOrder is the fixed category order of umbrella implementation files.
var ImplementationOrder = []Category{
	CategoryCAPI,
	CategoryPlatform,
	CategoryFoundation,
	CategoryCore,
}

// SourceFile is one discovered file.
type SourceFile struct {
	Path      string   // absolute path
	RelPath   string   // slash-separated path relative to the walked root
	Extension string   // including the dot
	Category  Category // assigned by the first matching rule
	Platform  Platform // PlatformNone unless Category is CategoryPlatform
}
