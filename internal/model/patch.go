package model

// PatchResult describes the outcome of patching one binary module.
type PatchResult struct {
	Module        string
	HeaderLocated bool   // header pointer resolved and magic matched
	BytesAppended int    // random trailer length, 0 when the module failed
	InputDigest   string // hex SHA-256 of the module before patching
	OutputDigest  string // hex SHA-256 of the module after patching
	OK            bool
	Err           error
}

// RunOutcome accumulates the terminal action taken for every direct source
// entry, plus the binary modules handled by the patcher. Transformed +
// Copied + Skipped always equals the number of direct entries seen.
type RunOutcome struct {
	Transformed int
	Copied      int
	Skipped     int
	Patched     int
	Failed      int
}

// Entries returns the number of direct source-root entries the dispatcher
// accounted for.
func (o RunOutcome) Entries() int {
	return o.Transformed + o.Copied + o.Skipped
}
