// Package layout maps an app purpose and a list of feature keywords onto an
// ordered set of screen suggestions. Planning is driven by an explicit, ordered
// table of rules; every matching rule contributes one screen and a fallback
// screen is emitted when nothing matches. Planners are immutable once built and
// safe for concurrent use.
package layout
