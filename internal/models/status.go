package models

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusPaid      TransactionStatus = "paid"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
	StatusExpired   TransactionStatus = "expired"
)

var validNext = map[TransactionStatus][]TransactionStatus{
	StatusPending: {StatusPaid, StatusCancelled, StatusExpired},
	StatusPaid:    {StatusCompleted},
}

func CanTransition(from, to TransactionStatus) bool {
	for _, s := range validNext[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s TransactionStatus) Terminal() bool {
	return len(validNext[s]) == 0
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
