// Package orchestrator wires the rule set, the planner, the renderer registry
// and an optional theme selector into a single Generate call.
package orchestrator
