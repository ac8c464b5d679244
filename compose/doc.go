// Package compose adapts natives that report results through an output
// parameter into calls that return every result at once.
//
// A Tracked value carries the primary result together with the updated
// search window; at the bridge boundary it is lowered to the two-element
// list [result, window].
package compose
