// Package classify discovers source files beneath a vendored C++ tree and
// assigns each one a category and platform tag.
//
// Classification is a pure function of the path relative to the walked root.
// It is expressed as an ordered RuleSet evaluated first-match-wins:
//
//	examples/...            -> excluded
//	capi/...                -> capi (wins over platform)
//	platform/<target>/...   -> platform, tagged <target>
//	platform/<other>/...    -> excluded
//	foundation/...          -> foundation
//	anything else           -> core
//
// Header aggregation uses a separate RuleSet that drops capi and platform
// headers from the generic C++ pass; capi headers are listed by CAPIHeaders
// from a fixed directory and filename suffix.
package classify
