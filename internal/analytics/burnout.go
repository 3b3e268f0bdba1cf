package analytics

import "github.com/pbaille/planner/internal/domain"

const (
	highRiskScore   = 6
	mediumRiskScore = 3
)

const (
	msgRiskHigh   = "Your burnout risk is critical. Please take immediate rest and reduce your workload."
	msgRiskMedium = "You are at moderate risk of burnout. Consider taking more breaks and improving sleep."
	msgRiskLow    = "You are managing your workload well. Keep maintaining a healthy balance."
)

// RiskScore adds up burnout points for the four signals. Hours and sleep
// each contribute from one band only; all four contributions accumulate.
// Out-of-range inputs are scored as given.
func RiskScore(avgHours, sleepHours, completionRate, stressLevel float64) int {
	score := 0

	switch {
	case avgHours > 10:
		score += 3
	case avgHours > 8:
		score++
	}

	switch {
	case sleepHours < 5:
		score += 3
	case sleepHours < 7:
		score++
	}

	if completionRate < 0.6 {
		score += 2
	}
	if stressLevel > 7 {
		score += 2
	}

	return score
}

// DetectBurnout classifies burnout risk from workload and wellness signals.
func DetectBurnout(avgHours, sleepHours, completionRate, stressLevel float64) domain.BurnoutAssessment {
	score := RiskScore(avgHours, sleepHours, completionRate, stressLevel)

	switch {
	case score >= highRiskScore:
		return domain.BurnoutAssessment{RiskLevel: domain.RiskHigh, Score: score, Message: msgRiskHigh}
	case score >= mediumRiskScore:
		return domain.BurnoutAssessment{RiskLevel: domain.RiskMedium, Score: score, Message: msgRiskMedium}
	default:
		return domain.BurnoutAssessment{RiskLevel: domain.RiskLow, Score: score, Message: msgRiskLow}
	}
}
