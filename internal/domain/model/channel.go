package model

// Channel is one output chat channel and the repository subset it covers.
type Channel struct {
	ID    string
	Style ChannelStyle
	// Repositories filters which "owner/repo" names the channel reports on.
	// Empty means every configured repository.
	Repositories []string
}

// Includes reports whether the channel covers the given "owner/repo".
func (c Channel) Includes(repoFullName string) bool {
	if len(c.Repositories) == 0 {
		return true
	}
	for _, r := range c.Repositories {
		if r == repoFullName {
			return true
		}
	}
	return false
}
