package classify

import "strings"

// Directory segment names the default rule sets key on.
const (
	SegmentExamples   = "examples"
	SegmentCAPI       = "capi"
	SegmentPlatform   = "platform"
	SegmentFoundation = "foundation"
)

// Rule is one entry of an ordered RuleSet. Match receives the directory
// segments of a root-relative path (the file name is not included).
type Rule struct {
	Name     string
	Match    func(dirs []string) bool
	Category Category
	Platform Platform
	Exclude  bool
}

// RuleSet is evaluated top to bottom; the first matching rule decides.
type RuleSet []Rule

// Classify returns the deciding rule for relPath. The second result is false
// when no rule matched or the deciding rule excludes the file.
func (rs RuleSet) Classify(relPath string) (Rule, bool) {
	dirs := DirSegments(relPath)
	for _, r := range rs {
		if r.Match == nil || !r.Match(dirs) {
			continue
		}
		if r.Exclude {
			return r, false
		}
		return r, true
	}
	return Rule{}, false
}

// ImplementationRules builds the rule set for an implementation run targeting
// platform. Extra segment names in exclude are dropped before anything else.
func ImplementationRules(platform Platform, exclude ...string) RuleSet {
	rs := exclusionRules(exclude)
	rs = append(rs,
		Rule{Name: "capi", Match: HasSegment(SegmentCAPI), Category: CategoryCAPI},
		Rule{
			Name: "platform/" + string(platform),
			Match: func(dirs []string) bool {
				return PlatformOf(dirs) == platform && platform != PlatformNone
			},
			Category: CategoryPlatform,
			Platform: platform,
		},
		Rule{
			Name: "other-platform",
			Match: func(dirs []string) bool {
				p := PlatformOf(dirs)
				return p.IsKnown() && p != platform
			},
			Exclude: true,
		},
		Rule{Name: "foundation", Match: HasSegment(SegmentFoundation), Category: CategoryFoundation},
		Rule{Name: "core", Match: matchAll, Category: CategoryCore},
	)
	return rs
}

// HeaderRules builds the rule set for the generic C++ header pass. Capi
// headers are collected separately, platform headers are never aggregated.
func HeaderRules(exclude ...string) RuleSet {
	rs := exclusionRules(exclude)
	rs = append(rs,
		Rule{Name: "capi", Match: HasSegment(SegmentCAPI), Exclude: true},
		Rule{Name: "platform", Match: HasSegment(SegmentPlatform), Exclude: true},
		Rule{Name: "cpp-header", Match: matchAll, Category: CategoryCPPHeader},
	)
	return rs
}

func exclusionRules(extra []string) RuleSet {
	names := append([]string{SegmentExamples}, extra...)
	rs := make(RuleSet, 0, len(names)+5)
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		rs = append(rs, Rule{Name: n, Match: HasSegment(n), Exclude: true})
	}
	return rs
}

// HasSegment matches when any directory segment equals name.
func HasSegment(name string) func([]string) bool {
	return func(dirs []string) bool {
		for _, d := range dirs {
			if d == name {
				return true
			}
		}
		return false
	}
}

// PlatformOf returns the platform named by the first platform/<X> segment
// pair, or PlatformNone. Only the first pair counts, so a path can never
// belong to two platforms.
func PlatformOf(dirs []string) Platform {
	for i := 0; i+1 < len(dirs); i++ {
		if dirs[i] == SegmentPlatform {
			return Platform(dirs[i+1])
		}
	}
	return PlatformNone
}

// DirSegments splits the directory part of a slash-separated relative path.
func DirSegments(relPath string) []string {
	relPath = strings.Trim(relPath, "/")
	i := strings.LastIndex(relPath, "/")
	if i < 0 {
		return nil
	}
	return strings.Split(relPath[:i], "/")
}

func matchAll([]string) bool { return true }
