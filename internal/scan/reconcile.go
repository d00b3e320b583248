package scan

import (
	"hirevet/pkg/utils"
)

// Ownership is the result of reconciling claimed repositories against the
// submitted profile
type Ownership struct {
	Verified []string
	Invalid  []string
}

// ReconcileOwnership splits claimed repository URLs into those owned by
// username and those that are not. The owner comparison is exact: GitHub
// preserves username casing and candidates are expected to quote their own
// handle as written. URLs without an owner/name pair are invalid.
func ReconcileOwnership(claimed []string, username string) Ownership {
	var result Ownership
	for _, repoURL := range claimed {
		owner, _, ok := utils.SplitRepoPath(repoURL)
		if ok && owner == username {
			result.Verified = append(result.Verified, repoURL)
		} else {
			result.Invalid = append(result.Invalid, repoURL)
		}
	}
	return result
}
