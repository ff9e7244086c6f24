// Package gitx provides typed access to the git CLI. Every invocation
// carries an explicit working directory — nothing in this package reads or
// mutates the process working directory. The Runner interface is the single
// seam to the outside world: production code uses ExecRunner over the git
// binary, tests substitute a scripted fake so the whole sync engine runs
// without a real repository.
package gitx
