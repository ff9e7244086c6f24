package overleaf

// Status classifies the result of a sync operation. Exactly one status is
// produced per call.
type Status string

const (
	// StatusSuccess means the operation completed.
	StatusSuccess Status = "success"

	// StatusNotInProject means no ancestor directory carries a project
	// marker (experiments/ or paper/).
	StatusNotInProject Status = "not-in-project"

	// StatusNotLinked means no Overleaf remote is configured.
	StatusNotLinked Status = "not-linked"

	// StatusAlreadyLinked means an Overleaf remote already exists; link
	// refuses to overwrite it.
	StatusAlreadyLinked Status = "already-linked"

	// StatusDirtyWorkingTree means uncommitted changes block the operation.
	StatusDirtyWorkingTree Status = "dirty-working-tree"

	// StatusNotEmpty means the paper/ mount point has content, so the
	// subtree cannot be added there.
	StatusNotEmpty Status = "paper-not-empty"

	// StatusMissingSubtree means the paper/ directory does not exist.
	StatusMissingSubtree Status = "paper-missing"

	// StatusMergeConflict means the subtree merge stopped on conflicts
	// that must be resolved manually.
	StatusMergeConflict Status = "merge-conflict"

	// StatusCredentialOrNetwork means a fetch or push against the remote
	// failed, typically bad credentials or no network.
	StatusCredentialOrNetwork Status = "credential-or-network"

	// StatusSubtreeFailed covers any other non-zero git result.
	StatusSubtreeFailed Status = "subtree-failed"
)

// Outcome is the structured result of a sync operation.
type Outcome struct {
	Status Status

	// Prefix is the repository-root-relative subtree path, when it was
	// resolved before the operation ended. Operators need this in nested
	// (monorepo) layouts.
	Prefix string

	// Detail is a short human-readable explanation of the result.
	Detail string

	// Hint names the corrective action, when one exists.
	Hint string

	// Warnings carries non-fatal notices (unexpected URL shape, prefix
	// fallback) accumulated along the way.
	Warnings []string
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

func failure(status Status, prefix, detail, hint string, warnings []string) Outcome {
	return Outcome{Status: status, Prefix: prefix, Detail: detail, Hint: hint, Warnings: warnings}
}
