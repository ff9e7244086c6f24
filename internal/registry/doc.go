// Package registry manages the layered tool registry: a bundled set of
// known experiment tools plus a user overlay at
// $XDG_CONFIG_HOME/expaper/registry.yaml. User entries win on name
// collisions. Registry files are schema-validated before merging.
package registry
