// Package editor is the interactive side of the sandbox: it tracks the body
// the user works on, turns pointer gestures into drags and throws, applies
// typed values, keeps the orbit trail and the time rate, and queues short
// notices for the front end.
//
// A Session holds no rendering state; the tui and api packages drive it
// and draw whatever it reports. Like physics.World it is not safe for
// concurrent use.
package editor
