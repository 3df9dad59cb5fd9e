// Package ruleset loads layout rule tables from JSON or YAML files so planners
// can be configured without recompiling. Files are read in lexical path order
// and rules keep their in-file order, which is also their evaluation order.
// Component labels are reduced to plain text before use.
package ruleset
