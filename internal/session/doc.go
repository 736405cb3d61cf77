// Package session is the host editor around the morphing engine.
//
// A Session owns the live configuration tree and the set of selected
// parameters. It captures keyframes from the live tree, lets the playback
// clock write interpolated configurations back into it, and converts the
// whole state to and from timeline projects.
package session
