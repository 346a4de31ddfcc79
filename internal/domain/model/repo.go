package model

import (
	"fmt"
	"strings"
)

// RepoRef identifies one watched repository.
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef splits an "owner/repo" string into a RepoRef.
func ParseRepoRef(full string) (RepoRef, error) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository name %q: expected owner/repo", full)
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// String returns the "owner/repo" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}
