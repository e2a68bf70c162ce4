package models

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationRejected  ReservationStatus = "rejected"
	ReservationCompleted ReservationStatus = "completed"
)

// Reservations only move forward; rejected and completed are terminal.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:  {ReservationApproved, ReservationRejected},
	ReservationApproved: {ReservationCompleted},
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationPending, ReservationApproved, ReservationRejected, ReservationCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether an administrator may move a reservation from s to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses lists the transitions offered to the admin panel.
func (s ReservationStatus) NextStatuses() []ReservationStatus {
	return append([]ReservationStatus(nil), reservationTransitions[s]...)
}
