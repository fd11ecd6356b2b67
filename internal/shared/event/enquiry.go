package event

const EnquiryCreatedDestination string = "enquiry_created"
const EnquiryCreatedConsumerNotification string = "enquiry_created_notification"

type EnquiryCreatedMessage struct {
	EnquiryID     int64  `json:"enquiry_id"`
	TicketID      string `json:"ticket_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Subject       string `json:"subject"`
}
