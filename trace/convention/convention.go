// Package convention pins the desugaring conventions this compiler
// understands to the library versions that introduced them.
package convention

import "golang.org/x/mod/semver"

// MinBlockForm is the first async-trait release whose desugaring wraps the
// original body in an async move block. Earlier releases moved the body into
// a nested async function, a shape the body instrumenter cannot rewrite.
const MinBlockForm = "v0.1.44"

// SupportsBlockForm reports whether the given async-trait version emits the
// supported async-move-block desugaring. Invalid versions are treated as
// current, so only an explicit old version downgrades behavior.
func SupportsBlockForm(version string) bool {
	if !semver.IsValid(version) {
		return true
	}
	return semver.Compare(version, MinBlockForm) >= 0
}

// UpgradeMessage is the guidance attached to diagnostics for the
// unsupported nested-function desugaring.
const UpgradeMessage = "this desugaring moves the function body into a nested function and cannot be instrumented; upgrade async-trait to " + MinBlockForm + " or newer"
