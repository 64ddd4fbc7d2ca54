package lifecycle

import "loanflow/internal/pkg/consts"

// allowedTransitions is the authoritative transition table. Terminal statuses
// have no entry.
var allowedTransitions = map[consts.ApplicationStatus][]consts.ApplicationStatus{
	consts.StatusPending:        {consts.StatusPreApproved, consts.StatusRejected, consts.StatusCancelled},
	consts.StatusPreApproved:    {consts.StatusDocumentReview, consts.StatusRejected, consts.StatusCancelled},
	consts.StatusDocumentReview: {consts.StatusApproved, consts.StatusRejected, consts.StatusCancelled},
	consts.StatusApproved:       {consts.StatusFunding, consts.StatusRejected, consts.StatusCancelled},
	consts.StatusFunding:        {consts.StatusFunded, consts.StatusRejected, consts.StatusCancelled},
}

// stepForStatus maps each status to its pipeline step for progress display.
// The step is always derived from status, never stored independently.
var stepForStatus = map[consts.ApplicationStatus]int{
	consts.StatusPending:        1,
	consts.StatusPreApproved:    2,
	consts.StatusDocumentReview: 3,
	consts.StatusApproved:       4,
	consts.StatusFunding:        5,
	consts.StatusFunded:         6,
	consts.StatusRejected:       0,
	consts.StatusCancelled:      0,
}

func IsTerminal(status consts.ApplicationStatus) bool {
	switch status {
	case consts.StatusFunded, consts.StatusRejected, consts.StatusCancelled:
		return true
	}
	return false
}

func CanTransition(from, to consts.ApplicationStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func StepForStatus(status consts.ApplicationStatus) int {
	return stepForStatus[status]
}
