// Package project locates the expaper project root: the nearest ancestor
// of the working directory that contains an experiments/ or paper/ marker
// directory. Resolution is a pure function of the filesystem at call time —
// nothing is cached or persisted between invocations.
package project
