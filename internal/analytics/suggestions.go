package analytics

import "github.com/pbaille/planner/internal/domain"

// Suggestion messages, in the order their rules are checked.
const (
	SuggestConsistency = "Consistency is key. Try to stick to a fixed schedule for at least 5 days a week."
	SuggestBreaks      = "You're working long hours. Schedule 15-minute breaks every 2 hours to maintain focus."
	SuggestFocusTime   = "Consider increasing your daily focus time to reach your goals faster."
	SuggestSplitTasks  = "Your deadline miss rate is high. Try splitting large tasks into smaller, manageable sub-tasks."
	SuggestRest        = "Priority: Rest. A tired mind is less productive. Take a full day off if possible."
	SuggestKeepGoing   = "You're doing great! Keep up the excellent work and maintain your current pace."
)

// Suggestions returns coaching advice in rule order. The result is never empty:
// when no rule fires it holds the single encouragement message.
func Suggestions(consistency, avgHours, missedRate float64, risk domain.RiskLevel) []string {
	var out []string

	if consistency < 0.6 {
		out = append(out, SuggestConsistency)
	}

	if avgHours > 10 {
		out = append(out, SuggestBreaks)
	} else if avgHours < 3 {
		out = append(out, SuggestFocusTime)
	}

	if missedRate > 0.3 {
		out = append(out, SuggestSplitTasks)
	}

	if risk == domain.RiskHigh {
		out = append(out, SuggestRest)
	}

	if len(out) == 0 {
		out = append(out, SuggestKeepGoing)
	}
	return out
}
