package counselor

import "strings"

const maxVerbatimTitleLen = 30

// topicLabels is checked in priority order against the first user
// message; the first keyword hit wins.
var topicLabels = []struct {
	keyword string
	label   string
}{
	{"resume", "Resume Help"},
	{"interview", "Interview Prep"},
	{"career change", "Career Transition"},
	{"salary", "Salary Discussion"},
	{"skill", "Skill Development"},
	{"network", "Networking Strategy"},
}

// GenerateSessionTitle derives a session title from the first user
// message. Short messages are used verbatim; longer ones map to a topic
// label, or are truncated with an ellipsis. Deterministic and
// side-effect free, so the client can run it for optimistic display
// before the server confirms.
func GenerateSessionTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= maxVerbatimTitleLen {
		return firstMessage
	}

	lower := strings.ToLower(firstMessage)
	for _, t := range topicLabels {
		if strings.Contains(lower, t.keyword) {
			return t.label
		}
	}

	return string(runes[:maxVerbatimTitleLen]) + "..."
}
