// Package selection defines the selection trees written in client selectable
// declarations: which selectables are read, under which alias, with which
// arguments and directives.
//
// A selection tree is plain data. Whether it is well typed is decided by
// package validate against a catalog; how it is fetched is decided by package
// merged.
package selection
