package model

// Customer is a shipper account.
type Customer struct {
	ID             int64  `json:"id"`
	Code           string `json:"customer_code"`
	Name           string `json:"customer_name"`
	DepartmentName string `json:"customer_department_name"`
	ContactName    string `json:"customer_contact_name"`
	PostCode       string `json:"customer_post_code"`
	Prefecture     string `json:"customer_prefecures"` // API spelling
	Address1       string `json:"customer_address_1"`
	Address2       string `json:"customer_address_2,omitempty"`
	PhoneNumber    string `json:"customer_phone_number"`
	Email          string `json:"customer_email,omitempty"`
}

// CustomerRef is the customer summary embedded in other entities.
type CustomerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"customer_name"`
}

// ZipAddress is one result of a postal code lookup.
type ZipAddress struct {
	ZipCode    string `json:"zip_cd"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Town       string `json:"town"`
}

// Address joins the city and town parts.
func (z ZipAddress) Address() string {
	return z.City + z.Town
}
