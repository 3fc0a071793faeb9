package model

// Pickup is a collection location registered for a customer.
type Pickup struct {
	ID          int64        `json:"id"`
	CustomerID  int64        `json:"customer_id"`
	Customer    *CustomerRef `json:"customer,omitempty"`
	AddressName string       `json:"pickup_address_name"`
	Address     string       `json:"pickup_address"`
	PhoneNumber string       `json:"pickup_phone_number"`
}

// CustomerName returns the embedded customer name, if any.
func (p Pickup) CustomerName() string {
	if p.Customer == nil {
		return ""
	}
	return p.Customer.Name
}
