package model

// Delivery is a delivery destination registered for a customer.
type Delivery struct {
	ID          int64        `json:"id"`
	CustomerID  int64        `json:"customer_id"`
	Customer    *CustomerRef `json:"customer,omitempty"`
	AddressName string       `json:"delivery_address_name"`
	Address1    string       `json:"delivery_address_1"`
	Address2    string       `json:"delivery_address_2,omitempty"`
	Prefecture  string       `json:"delivery_prefectures"`
	PostCode    string       `json:"delivery_post_code"`
	PhoneNumber string       `json:"delivery_phone_number"`
}

// CustomerName returns the embedded customer name, if any.
func (d Delivery) CustomerName() string {
	if d.Customer == nil {
		return ""
	}
	return d.Customer.Name
}

// ScheduleEntry is one row of the delivery schedule report.
type ScheduleEntry struct {
	DocumentNumber string         `json:"document_number"`
	CustomerName   string         `json:"customer_name"`
	AddressName    string         `json:"delivery_address_name"`
	DeliveryDate   Date           `json:"delivery_date"`
	Status         DeliveryStatus `json:"status"`
	ItemCount      int            `json:"item_count"`
}
