package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/me/shipdesk/pkg/model"
)

// Services groups the typed endpoints of one Client.
type Services struct {
	Auth          *AuthService
	Customers     *CustomerService
	Pickups       *PickupService
	Deliveries    *DeliveryService
	Users         *UserService
	Distributions *DistributionService
	Checkpoints   *CheckpointService
	ZipSearch     *ZipSearchService
}

// NewServices binds every service to c.
func NewServices(c *Client) *Services {
	return &Services{
		Auth:          &AuthService{c: c},
		Customers:     &CustomerService{c: c},
		Pickups:       &PickupService{c: c},
		Deliveries:    &DeliveryService{c: c},
		Users:         &UserService{c: c},
		Distributions: &DistributionService{c: c},
		Checkpoints:   &CheckpointService{c: c},
		ZipSearch:     &ZipSearchService{c: c},
	}
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// --- Auth ---

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the login reply. Older API builds send "token" instead
// of "access_token".
type LoginResponse struct {
	Message     string      `json:"message"`
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	Token       string      `json:"token"`
}

// BearerToken returns access_token, falling back to token.
func (r *LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

type AuthService struct{ c *Client }

// Login exchanges credentials for a user and token.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := s.c.post(ctx, "/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.BearerToken() == "" {
		return nil, fmt.Errorf("login response missing user or token")
	}
	return &resp, nil
}

// Logout revokes token on the server. The token is passed explicitly since
// the local session is already gone by the time this runs.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	c := *s.c
	c.Tokens = StaticToken(token)
	_, err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	return err
}

// --- Customers ---

// CustomerFilter narrows customer lists and searches.
type CustomerFilter struct {
	CustomerID   int64
	CustomerName string
	CustomerCode string
}

func (f CustomerFilter) apply(q *Query) {
	q.Int("customer_id", f.CustomerID).
		String("customer_name", f.CustomerName).
		String("customer_code", f.CustomerCode)
}

type CustomerService struct{ c *Client }

func (s *CustomerService) List(ctx context.Context, f CustomerFilter, opts model.ListOptions) (*model.Page[model.Customer], error) {
	q := NewQuery(opts)
	f.apply(q)
	return list[model.Customer](ctx, s.c, "/customers", q.Values())
}

// Search returns customers for the shipping-input picker.
func (s *CustomerService) Search(ctx context.Context, f CustomerFilter) ([]model.Customer, error) {
	q := NewQuery(model.ListOptions{})
	f.apply(q)
	var out []model.Customer
	if err := s.c.get(ctx, "/customers/search", q.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	var out model.Customer
	if err := s.c.get(ctx, idPath("/customers", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomerService) Create(ctx context.Context, in *model.Customer) (*model.Customer, error) {
	var out model.Customer
	if err := s.c.post(ctx, "/customers", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, in *model.Customer) (*model.Customer, error) {
	var out model.Customer
	if err := s.c.put(ctx, idPath("/customers", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Pickups ---

// LocationFilter narrows pickup and delivery address lists.
type LocationFilter struct {
	CustomerID  int64
	AddressName string
	Address     string
	PhoneNumber string
}

func (f LocationFilter) apply(q *Query) {
	q.Int("customer_id", f.CustomerID).
		String("address_name", f.AddressName).
		String("address", f.Address).
		String("phone_number", f.PhoneNumber)
}

type PickupService struct{ c *Client }

func (s *PickupService) List(ctx context.Context, f LocationFilter, opts model.ListOptions) (*model.Page[model.Pickup], error) {
	q := NewQuery(opts)
	f.apply(q)
	return list[model.Pickup](ctx, s.c, "/pickups", q.Values())
}

func (s *PickupService) Get(ctx context.Context, id int64) (*model.Pickup, error) {
	var out model.Pickup
	if err := s.c.get(ctx, idPath("/pickups", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PickupService) Create(ctx context.Context, in *model.Pickup) (*model.Pickup, error) {
	var out model.Pickup
	if err := s.c.post(ctx, "/pickups", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PickupService) Update(ctx context.Context, id int64, in *model.Pickup) (*model.Pickup, error) {
	var out model.Pickup
	if err := s.c.put(ctx, idPath("/pickups", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Import uploads a CSV of pickup locations.
func (s *PickupService) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	return importCSV(ctx, s.c, "/pickups/import", filename, r)
}

// --- Deliveries ---

type DeliveryService struct{ c *Client }

func (s *DeliveryService) List(ctx context.Context, f LocationFilter, opts model.ListOptions) (*model.Page[model.Delivery], error) {
	q := NewQuery(opts)
	f.apply(q)
	return list[model.Delivery](ctx, s.c, "/deliveries", q.Values())
}

func (s *DeliveryService) Get(ctx context.Context, id int64) (*model.Delivery, error) {
	var out model.Delivery
	if err := s.c.get(ctx, idPath("/deliveries", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DeliveryService) Create(ctx context.Context, in *model.Delivery) (*model.Delivery, error) {
	var out model.Delivery
	if err := s.c.post(ctx, "/deliveries", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DeliveryService) Update(ctx context.Context, id int64, in *model.Delivery) (*model.Delivery, error) {
	var out model.Delivery
	if err := s.c.put(ctx, idPath("/deliveries", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Import uploads a CSV of delivery destinations.
func (s *DeliveryService) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	return importCSV(ctx, s.c, "/deliveries/import", filename, r)
}

// ScheduleFilter narrows the delivery schedule report.
type ScheduleFilter struct {
	CustomerID int64
	From, To   model.Date
	Status     *model.DeliveryStatus
}

// Schedule returns the delivery schedule report.
func (s *DeliveryService) Schedule(ctx context.Context, f ScheduleFilter, opts model.ListOptions) (*model.Page[model.ScheduleEntry], error) {
	q := NewQuery(opts).Int("customer_id", f.CustomerID)
	if !f.From.IsZero() && !f.To.IsZero() {
		q.Date("delivery_date_from", f.From).Date("delivery_date_to", f.To)
	}
	if f.Status != nil {
		q.Values().Set("status", strconv.Itoa(int(*f.Status)))
	}
	return list[model.ScheduleEntry](ctx, s.c, "/deliveries/schedule", q.Values())
}

// --- Users ---

// UserInput is the create/update body for users. Password is omitted on
// update when blank.
type UserInput struct {
	Username    string              `json:"username"`
	UserName    string              `json:"user_name"`
	Email       string              `json:"email,omitempty"`
	Role        model.Role          `json:"role"`
	CustomerID  *int64              `json:"customer_id,omitempty"`
	Password    string              `json:"password,omitempty"`
	Permissions model.PermissionSet `json:"permissions"`
}

// UserFilter narrows user lists.
type UserFilter struct {
	Username string
	Role     model.Role
}

type UserService struct{ c *Client }

func (s *UserService) List(ctx context.Context, f UserFilter, opts model.ListOptions) (*model.Page[model.User], error) {
	q := NewQuery(opts).String("username", f.Username).String("role", string(f.Role))
	return list[model.User](ctx, s.c, "/users", q.Values())
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := s.c.get(ctx, idPath("/users", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Create(ctx context.Context, in *UserInput) (*model.User, error) {
	var out model.User
	if err := s.c.post(ctx, "/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in *UserInput) (*model.User, error) {
	var out model.User
	if err := s.c.put(ctx, idPath("/users", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Distributions (shipping input) ---

// InvoiceFilter narrows the shipping-input search. Each date range is sent
// only when both ends are set.
type InvoiceFilter struct {
	CustomerName             string
	Categories               []model.InvoiceCategory
	ReceptFrom, ReceptTo     model.Date
	PickupFrom, PickupTo     model.Date
	DeliveryFrom, DeliveryTo model.Date
}

func (f InvoiceFilter) values() url.Values {
	q := NewQuery(model.ListOptions{}).String("customer_name", f.CustomerName)
	dateRange(q, "recept_date", f.ReceptFrom, f.ReceptTo)
	dateRange(q, "pickup_date", f.PickupFrom, f.PickupTo)
	dateRange(q, "delivery_date", f.DeliveryFrom, f.DeliveryTo)
	v := q.Values()
	for _, c := range f.Categories {
		v.Add("category[]", strconv.Itoa(int(c)))
	}
	return v
}

func dateRange(q *Query, prefix string, from, to model.Date) {
	if from.IsZero() || to.IsZero() {
		return
	}
	q.Date(prefix+"_from", from).Date(prefix+"_to", to)
}

// Option is an entry of a fixed choice list such as parcel sizes.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DistributionService struct{ c *Client }

func (s *DistributionService) Get(ctx context.Context, id int64) (*model.Distribution, error) {
	var out model.Distribution
	if err := s.c.get(ctx, idPath("/distributions", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DistributionService) Create(ctx context.Context, in *model.Distribution) (*model.Distribution, error) {
	var out model.Distribution
	if err := s.c.post(ctx, "/distributions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DistributionService) Update(ctx context.Context, id int64, in *model.Distribution) (*model.Distribution, error) {
	var out model.Distribution
	if err := s.c.put(ctx, idPath("/distributions", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchInvoices finds existing shipping inputs.
func (s *DistributionService) SearchInvoices(ctx context.Context, f InvoiceFilter) ([]model.Distribution, error) {
	var out []model.Distribution
	if err := s.c.get(ctx, "/distributions/search", f.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PickupLocations searches pickup addresses for the shipping-input form.
func (s *DistributionService) PickupLocations(ctx context.Context, f LocationFilter) ([]model.AddressBlock, error) {
	q := NewQuery(model.ListOptions{})
	f.apply(q)
	var out []model.AddressBlock
	if err := s.c.get(ctx, "/distributions/pickup-search", q.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeliveryAddresses searches delivery addresses for the shipping-input form.
func (s *DistributionService) DeliveryAddresses(ctx context.Context, f LocationFilter) ([]model.AddressBlock, error) {
	q := NewQuery(model.ListOptions{})
	f.apply(q)
	var out []model.AddressBlock
	if err := s.c.get(ctx, "/distributions/delivery-search", q.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Requests lists pickup requests.
func (s *DistributionService) Requests(ctx context.Context, f InvoiceFilter, opts model.ListOptions) (*model.Page[model.Distribution], error) {
	v := f.values()
	for k, vals := range NewQuery(opts).Values() {
		v[k] = vals
	}
	return list[model.Distribution](ctx, s.c, "/distributions/requests", v)
}

// Sizes lists parcel size choices.
func (s *DistributionService) Sizes(ctx context.Context) ([]Option, error) {
	var out []Option
	if err := s.c.get(ctx, "/distributions/sizes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Weights lists parcel weight choices.
func (s *DistributionService) Weights(ctx context.Context) ([]Option, error) {
	var out []Option
	if err := s.c.get(ctx, "/distributions/weights", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Checkpoints ---

// StatusUpdate moves one parcel to a new status.
type StatusUpdate struct {
	DocumentNumber string               `json:"distribution_item_document_number"`
	Status         model.DeliveryStatus `json:"status"`
}

// StatusResult is the API reply to a status update or sorting check.
type StatusResult struct {
	Message string                  `json:"message"`
	Item    *model.DistributionItem `json:"item,omitempty"`
}

type CheckpointService struct{ c *Client }

// UpdateStatus records a checkpoint scan.
func (s *CheckpointService) UpdateStatus(ctx context.Context, in StatusUpdate) (*StatusResult, error) {
	var out StatusResult
	if err := s.c.post(ctx, "/distribution-items/status", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SortingCheck verifies a parcel was sorted without changing its status.
func (s *CheckpointService) SortingCheck(ctx context.Context, documentNumber string) (*StatusResult, error) {
	var out StatusResult
	body := map[string]string{"distribution_item_document_number": documentNumber}
	if err := s.c.post(ctx, "/distribution-items/sorting-check", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Zip search ---

type ZipSearchService struct{ c *Client }

// Lookup resolves a postal code to addresses.
func (s *ZipSearchService) Lookup(ctx context.Context, zip string) ([]model.ZipAddress, error) {
	q := NewQuery(model.ListOptions{}).String("zip_cd", zip)
	var out []model.ZipAddress
	if err := s.c.get(ctx, "/zipsearch", q.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- CSV import ---

// ImportResult is the API reply to a CSV upload.
type ImportResult struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

func importCSV(ctx context.Context, c *Client, path, filename string, r io.Reader) (*ImportResult, error) {
	raw, err := c.upload(ctx, path, filename, r)
	if err != nil {
		return nil, err
	}
	var out ImportResult
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
