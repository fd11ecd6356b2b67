package event

const (
	DeliveryFailedDestination          string = "delivery_failed"
	DeliveryFailedConsumerNotification string = "delivery_failed_notification"

	DeliveryReattemptDestination          string = "delivery_reattempt"
	DeliveryReattemptConsumerNotification string = "delivery_reattempt_notification"
)

// DeliveryFailedMessage refers to a stock movement that could not be handed
// over to the customer.
type DeliveryFailedMessage struct {
	StockMovementID int64  `json:"stock_movement_id"`
	ReferenceNumber string `json:"reference_number"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	ItemName        string `json:"item_name"`
}

type DeliveryReattemptMessage struct {
	StockMovementID int64  `json:"stock_movement_id"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
}
