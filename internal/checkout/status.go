package checkout

type Status string

const (
	StatusInitiated         Status = "INITIATED"
	StatusPriced            Status = "PRICED"
	StatusInventoryReserved Status = "INVENTORY_RESERVED"
	StatusPersisted         Status = "PERSISTED"
	StatusCompleted         Status = "COMPLETED"

	StatusRejectedEmptyCart          Status = "REJECTED_EMPTY_CART"
	StatusRejectedInsufficientStock  Status = "REJECTED_INSUFFICIENT_STOCK"
	StatusRejectedPersistenceFailure Status = "REJECTED_PERSISTENCE_FAILURE"
)

// validTransitions pins down the one-way flow of a checkout attempt:
// Initiated -> Priced -> InventoryReserved -> Persisted -> Completed, with
// each in-flight state allowed to drop into its rejection exit.
var validTransitions = map[Status][]Status{
	StatusInitiated:         {StatusPriced, StatusRejectedEmptyCart},
	StatusPriced:            {StatusInventoryReserved, StatusRejectedInsufficientStock},
	StatusInventoryReserved: {StatusPersisted, StatusRejectedPersistenceFailure},
	StatusPersisted:         {StatusCompleted},
}

// CanTransitionTo reports whether status may move to next.
func CanTransitionTo(status, next Status) bool {
	for _, allowed := range validTransitions[status] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejectedEmptyCart,
		StatusRejectedInsufficientStock, StatusRejectedPersistenceFailure:
		return true
	}
	return false
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
