package forms

import (
	"context"
	"errors"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/pkg/model"
)

// Saver creates or updates the entity behind form F.
type Saver[F, T any] interface {
	Create(ctx context.Context, form *F) (*T, error)
	Update(ctx context.Context, id int64, form *F) (*T, error)
}

// Submit validates form and, when valid, creates (id == 0) or updates the
// entity. Validation failures return FieldErrors without calling the saver.
func Submit[F, T any](ctx context.Context, s Saver[F, T], id int64, form *F) (*T, error) {
	if fe := Validate(form); fe != nil {
		return nil, fe
	}
	return save(ctx, s, id, form)
}

func save[F, T any](ctx context.Context, s Saver[F, T], id int64, form *F) (*T, error) {
	if id == 0 {
		return s.Create(ctx, form)
	}
	return s.Update(ctx, id, form)
}

// SubmitNotify is Submit with a loading notification resolved to the
// outcome. what names the entity in messages, e.g. "Customer".
func SubmitNotify[F, T any](ctx context.Context, n notify.Notifier, what string, s Saver[F, T], id int64, form *F) (*T, error) {
	if fe := Validate(form); fe != nil {
		return nil, fe
	}
	verb := "created"
	if id != 0 {
		verb = "updated"
	}
	pending := n.Loading("Saving " + what)
	out, err := save(ctx, s, id, form)
	if err != nil {
		pending.Error(what+" could not be saved", model.ErrorMessage(err))
		return nil, err
	}
	pending.Success(what+" "+verb, "")
	return out, nil
}

// ServerFieldErrors converts API validation errors into FieldErrors so they
// render next to the inputs.
func ServerFieldErrors(err error) (FieldErrors, bool) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Errors) == 0 {
		return nil, false
	}
	out := make(FieldErrors, len(apiErr.Errors))
	for _, fe := range apiErr.FieldErrors() {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out, true
}

// Savers adapts the REST services to Saver.
type Savers struct {
	Customers     Saver[CustomerForm, model.Customer]
	Deliveries    Saver[DeliveryForm, model.Delivery]
	Pickups       Saver[PickupForm, model.Pickup]
	Users         Saver[UserForm, model.User]
	Distributions Saver[ShippingInputForm, model.Distribution]
}

// NewSavers binds savers to svc. manifest supplies the user permission groups.
func NewSavers(svc *api.Services, manifest *model.NavigationManifest) *Savers {
	return &Savers{
		Customers:     customerSaver{svc.Customers},
		Deliveries:    deliverySaver{svc.Deliveries},
		Pickups:       pickupSaver{svc.Pickups},
		Users:         userSaver{svc.Users, manifest},
		Distributions: distributionSaver{svc.Distributions},
	}
}

type customerSaver struct{ svc *api.CustomerService }

func (s customerSaver) Create(ctx context.Context, f *CustomerForm) (*model.Customer, error) {
	return s.svc.Create(ctx, f.Customer())
}

func (s customerSaver) Update(ctx context.Context, id int64, f *CustomerForm) (*model.Customer, error) {
	return s.svc.Update(ctx, id, f.Customer())
}

type deliverySaver struct{ svc *api.DeliveryService }

func (s deliverySaver) Create(ctx context.Context, f *DeliveryForm) (*model.Delivery, error) {
	return s.svc.Create(ctx, f.Delivery())
}

func (s deliverySaver) Update(ctx context.Context, id int64, f *DeliveryForm) (*model.Delivery, error) {
	return s.svc.Update(ctx, id, f.Delivery())
}

type pickupSaver struct{ svc *api.PickupService }

func (s pickupSaver) Create(ctx context.Context, f *PickupForm) (*model.Pickup, error) {
	return s.svc.Create(ctx, f.Pickup())
}

func (s pickupSaver) Update(ctx context.Context, id int64, f *PickupForm) (*model.Pickup, error) {
	return s.svc.Update(ctx, id, f.Pickup())
}

type userSaver struct {
	svc      *api.UserService
	manifest *model.NavigationManifest
}

func (s userSaver) Create(ctx context.Context, f *UserForm) (*model.User, error) {
	return s.svc.Create(ctx, f.Input(s.manifest))
}

func (s userSaver) Update(ctx context.Context, id int64, f *UserForm) (*model.User, error) {
	return s.svc.Update(ctx, id, f.Input(s.manifest))
}

type distributionSaver struct{ svc *api.DistributionService }

func (s distributionSaver) Create(ctx context.Context, f *ShippingInputForm) (*model.Distribution, error) {
	return s.svc.Create(ctx, f.Distribution())
}

func (s distributionSaver) Update(ctx context.Context, id int64, f *ShippingInputForm) (*model.Distribution, error) {
	return s.svc.Update(ctx, id, f.Distribution())
}
