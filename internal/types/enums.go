package types

// WBS element status values
const (
	WbsInactive = "INACTIVE"
	WbsActive   = "ACTIVE"
	WbsComplete = "COMPLETE"
)

// Description bullet types
const (
	BulletExpectedActivity = "EXPECTED_ACTIVITY"
	BulletDeliverable      = "DELIVERABLE"
	BulletGoal             = "GOAL"
	BulletFeature          = "FEATURE"
	BulletConstraint       = "CONSTRAINT"
)

// Reimbursement request lifecycle states, derived from its timestamp set
const (
	ReimbursementPending       = "PENDING"
	ReimbursementSaboAssigned  = "SABO_ASSIGNED"
	ReimbursementAdvisorReview = "ADVISOR_REVIEW"
	ReimbursementApproved      = "APPROVED"
	ReimbursementDelivered     = "DELIVERED"
	ReimbursementDeleted       = "DELETED"
)

var ValidWbsStatuses = []string{WbsInactive, WbsActive, WbsComplete}

func IsValidWbsStatus(status string) bool {
	for _, s := range ValidWbsStatuses {
		if s == status {
			return true
		}
	}
	return false
}
