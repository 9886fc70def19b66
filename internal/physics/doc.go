// Package physics is the gravitational core of the sandbox.
//
// A [World] owns an ordered list of [Body] values and advances them with
// a sequential pairwise scheme:
//
//	for i, a := range bodies {
//	    for j, b := range bodies {
//	        if i != j {
//	            a.Gravitate(b, tickTime)
//	        }
//	    }
//	}
//	for _, a := range bodies {
//	    a.Update(tickTime)
//	}
//
// Velocity changes are visible to later pairs within the same tick, so the
// pair order influences trajectories slightly.
//
// # Thread Safety
//
// World and Body are NOT safe for concurrent use. Front ends that tick a
// World from one goroutine and edit it from another must serialise access
// themselves (see the api package).
package physics
