package model

// PullState represents the open/closed state of a pull request.
type PullState string

const (
	PullStateOpen   PullState = "open"
	PullStateClosed PullState = "closed"
)

// ReviewState represents the state of a review as reported by the API.
// Values outside the known set are carried through verbatim.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "APPROVED"
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewStateCommented        ReviewState = "COMMENTED"
	ReviewStatePending          ReviewState = "PENDING"
)

// CheckState represents the aggregate check-run health of a pull's head ref.
type CheckState string

const (
	CheckStatePending CheckState = "pending"
	CheckStatePassing CheckState = "passing"
	CheckStateFailing CheckState = "failing"
)

// CreditPolicy selects which review states earn a reviewer a fairness credit.
type CreditPolicy string

const (
	// CreditPolicyAll grants one credit for any review activity on a pull.
	CreditPolicyAll CreditPolicy = "all"
	// CreditPolicyApprovedOnly grants credit only for APPROVED reviews.
	CreditPolicyApprovedOnly CreditPolicy = "approved_only"
)

// ChannelStyle selects the summary shape rendered for an output channel.
type ChannelStyle string

const (
	ChannelStyleDetailed ChannelStyle = "detailed"
	ChannelStyleCompact  ChannelStyle = "compact"
)
