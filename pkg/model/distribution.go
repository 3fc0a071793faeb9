package model

// Distribution is a shipping input (invoice): one pickup or delivery order
// with its parcel items.
type Distribution struct {
	ID             int64              `json:"id,omitempty"`
	DocumentNumber string             `json:"document_number,omitempty"`
	CustomerID     int64              `json:"customer_id"`
	CustomerName   string             `json:"customer_name,omitempty"`
	Category       InvoiceCategory    `json:"category"`
	ReceptDate     Date               `json:"recept_date"`
	PickupDate     Date               `json:"pickup_date"`
	DeliveryDate   Date               `json:"delivery_date"`
	Pickup         AddressBlock       `json:"pickup"`
	Delivery       AddressBlock       `json:"delivery"`
	Items          []DistributionItem `json:"items"`
	Note           string             `json:"note,omitempty"`
}

// AddressBlock is a named address with a phone number.
type AddressBlock struct {
	AddressName string `json:"address_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// DistributionItem is one parcel line of a distribution.
type DistributionItem struct {
	ID             int64          `json:"id,omitempty"`
	SizeID         int64          `json:"size_id"`
	WeightID       int64          `json:"weight_id"`
	ItemNumber     int            `json:"item_number"`
	Status         DeliveryStatus `json:"status"`
	DocumentNumber string         `json:"distribution_item_document_number,omitempty"`
	Amount         string         `json:"amount"`
	PrintStatus    WaybillStatus  `json:"print_status"`
}

// TotalItems sums the parcel counts.
func (d Distribution) TotalItems() int {
	n := 0
	for _, it := range d.Items {
		n += it.ItemNumber
	}
	return n
}

// CopyForNew returns a copy suitable as the starting point of a new shipping
// input: identifiers, document numbers and dates are cleared.
func (d Distribution) CopyForNew() Distribution {
	c := d
	c.ID = 0
	c.DocumentNumber = ""
	c.ReceptDate = Date{}
	c.PickupDate = Date{}
	c.DeliveryDate = Date{}
	c.Items = make([]DistributionItem, len(d.Items))
	for i, it := range d.Items {
		it.ID = 0
		it.DocumentNumber = ""
		it.Status = DeliveryNotCollected
		it.PrintStatus = WaybillUnprinted
		c.Items[i] = it
	}
	return c
}
