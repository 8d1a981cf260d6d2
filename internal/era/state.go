// Package era groups consecutive commits sharing a manifest version into
// eras and reports the commit that introduced each one.
//
// Commits are visited newest first. An era is a maximal run of visited
// commits declaring the same version; its introduction commit is the last
// one visited in the run, which is the oldest commit carrying that version.
package era

import "github.com/indaco/gitv/internal/core"

// Event reports that Version was introduced at Commit.
type Event struct {
	Version core.Version
	Commit  core.Commit
}

// State is the walker state between two commits. The zero value has no open era.
type State struct {
	version core.Version
	last    core.Commit
}

// Open reports whether an era is currently open.
func (s State) Open() bool {
	return !s.version.IsUnset()
}

// Step advances the walk by one visited commit declaring v.
//
// It returns the new state and, when v closes the previous era, the event
// for that era. The closing event carries the oldest commit of the closed
// era, never c itself, which opens the next era. v must be declared.
func Step(s State, c core.Commit, v core.Version) (State, Event, bool) {
	if v.IsUnset() {
		panic("era: step with unset version")
	}

	next := State{version: v, last: c}
	if !s.Open() || s.version.Equal(v) {
		return next, Event{}, false
	}
	return next, Event{Version: s.version, Commit: s.last}, true
}

// Finish closes the open era at end of input, if any.
func Finish(s State) (Event, bool) {
	if !s.Open() {
		return Event{}, false
	}
	return Event{Version: s.version, Commit: s.last}, true
}

// Walk folds the visited commits and their versions into the event list.
// commits and versions must have the same length.
func Walk(commits []core.Commit, versions []core.Version) []Event {
	if len(commits) != len(versions) {
		panic("era: commits and versions length mismatch")
	}

	var (
		state  State
		events []Event
	)
	for i, c := range commits {
		var (
			ev   Event
			emit bool
		)
		state, ev, emit = Step(state, c, versions[i])
		if emit {
			events = append(events, ev)
		}
	}
	if ev, ok := Finish(state); ok {
		events = append(events, ev)
	}
	return events
}
