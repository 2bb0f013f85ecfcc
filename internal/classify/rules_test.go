package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImplementationRules_FirstMatchWins(t *testing.T) {
	rules := ImplementationRules(PlatformMacOS)

	cases := []struct {
		rel      string
		include  bool
		rule     string
		category Category
	}{
		{rel: "examples/capi/x_c.cpp", include: false, rule: "examples"},
		{rel: "capi/platform/ios/x_c.cpp", include: true, rule: "capi", category: CategoryCAPI},
		{rel: "platform/macos/x.mm", include: true, rule: "platform/macos", category: CategoryPlatform},
		{rel: "platform/windows/x.cpp", include: false, rule: "other-platform"},
		{rel: "platform/windows/foundation/x.cpp", include: false, rule: "other-platform"},
		{rel: "foundation/x.cpp", include: true, rule: "foundation", category: CategoryFoundation},
		{rel: "x.cpp", include: true, rule: "core", category: CategoryCore},
		{rel: "foundation.cpp", include: true, rule: "core", category: CategoryCore},
	}

	for _, tc := range cases {
		t.Run(tc.rel, func(t *testing.T) {
			rule, ok := rules.Classify(tc.rel)
			require.Equal(t, tc.include, ok)
			require.Equal(t, tc.rule, rule.Name)
			if tc.include {
				require.Equal(t, tc.category, rule.Category)
			}
		})
	}
}

func TestHeaderRules(t *testing.T) {
	rules := HeaderRules("third_party")

	_, ok := rules.Classify("third_party/json.h")
	require.False(t, ok)
	_, ok = rules.Classify("capi/window_c.h")
	require.False(t, ok)
	_, ok = rules.Classify("platform/linux/window_linux.h")
	require.False(t, ok)

	rule, ok := rules.Classify("foundation/geometry.h")
	require.True(t, ok)
	require.Equal(t, CategoryCPPHeader, rule.Category)
}

func TestPlatformOf(t *testing.T) {
	require.Equal(t, PlatformNone, PlatformOf(nil))
	require.Equal(t, PlatformNone, PlatformOf([]string{"platform"}))
	require.Equal(t, PlatformOHOS, PlatformOf([]string{"a", "platform", "ohos", "platform", "linux"}))
}

func TestDirSegments(t *testing.T) {
	require.Nil(t, DirSegments("core.cpp"))
	require.Equal(t, []string{"platform", "macos"}, DirSegments("platform/macos/x.mm"))
	require.Equal(t, []string{"a"}, DirSegments("/a/b.h"))
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform(" MacOS ")
	require.NoError(t, err)
	require.Equal(t, PlatformMacOS, p)

	p, err = ParsePlatform("Darwin")
	require.NoError(t, err)
	require.Equal(t, PlatformMacOS, p)

	_, err = ParsePlatform("plan9")
	require.ErrorIs(t, err, ErrUnknownPlatform)

	require.Equal(t, "none", PlatformNone.String())
}
