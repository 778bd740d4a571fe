package events

// Topics emitted by the rental settlement service.
const (
	// TopicRentalReturnSettled fires after a return is settled and persisted.
	TopicRentalReturnSettled = "rental.return.settled"
	// TopicRentalStatusChanged fires whenever a rental moves to a new lifecycle status.
	TopicRentalStatusChanged = "rental.status.changed"
	// TopicStockMovementRecorded fires after a stock movement passes validation and is stored.
	TopicStockMovementRecorded = "stock.movement.recorded"
)
