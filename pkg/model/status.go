package model

import "fmt"

// DeliveryStatus tracks a parcel through the checkpoints.
type DeliveryStatus int

const (
	DeliveryNotCollected DeliveryStatus = iota
	DeliveryCollected
	DeliverySorting
	DeliveryLoading
	DeliveryArrivedAtHub
	DeliveryLoadedAtHub
	DeliveryDelivered
)

var deliveryStatusLabels = map[DeliveryStatus]string{
	DeliveryNotCollected: "Not collected",
	DeliveryCollected:    "Collected",
	DeliverySorting:      "Sorting",
	DeliveryLoading:      "Loading",
	DeliveryArrivedAtHub: "Arrived at hub",
	DeliveryLoadedAtHub:  "Loaded at hub",
	DeliveryDelivered:    "Delivered",
}

func (s DeliveryStatus) String() string {
	if l, ok := deliveryStatusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("DeliveryStatus(%d)", int(s))
}

// Valid reports whether s is a known status.
func (s DeliveryStatus) Valid() bool {
	_, ok := deliveryStatusLabels[s]
	return ok
}

// WaybillStatus records whether the waybill was printed.
type WaybillStatus int

const (
	WaybillUnprinted WaybillStatus = 0
	WaybillPrinted   WaybillStatus = 1
)

func (s WaybillStatus) String() string {
	switch s {
	case WaybillUnprinted:
		return "Unprinted"
	case WaybillPrinted:
		return "Printed"
	}
	return fmt.Sprintf("WaybillStatus(%d)", int(s))
}

// InvoiceCategory distinguishes pickup from delivery invoices.
type InvoiceCategory int

const (
	CategoryPickup   InvoiceCategory = 1
	CategoryDelivery InvoiceCategory = 2
)

func (c InvoiceCategory) String() string {
	switch c {
	case CategoryPickup:
		return "Pickup"
	case CategoryDelivery:
		return "Delivery"
	}
	return fmt.Sprintf("InvoiceCategory(%d)", int(c))
}

// Valid reports whether c is pickup or delivery.
func (c InvoiceCategory) Valid() bool {
	return c == CategoryPickup || c == CategoryDelivery
}
