// Package git refreshes the vendored source checkout from its remote using
// go-git. A refresh fetches the tracked remote and moves the checkout to the
// latest remote revision of the tracked branch, the in-process equivalent of
// `git submodule update --remote`. Divergent or dirty checkouts are refused
// unless hard_reset_on_diverge is set.
package git
