package models

// Badge is a discrete reputation tier label.
type Badge string

const (
	BadgeFresher     Badge = "Fresher"
	BadgeContributor Badge = "Contributor"
	BadgeScholar     Badge = "Scholar"
	BadgeProfessor   Badge = "Professor"
)

// ReputationScore computes the weighted reputation from a user's counters.
// The coefficients are part of the platform contract: posts weigh highest,
// answers above raw upvotes.
func ReputationScore(upvotesReceived, postsCount, answersCount int64) int64 {
	return 2*upvotesReceived + 5*postsCount + 3*answersCount
}

// BadgeFor maps a reputation value onto its tier, highest matching threshold
// wins.
func BadgeFor(reputation int64) Badge {
	switch {
	case reputation > 500:
		return BadgeProfessor
	case reputation > 200:
		return BadgeScholar
	case reputation > 50:
		return BadgeContributor
	default:
		return BadgeFresher
	}
}
