package scan

import (
	"fmt"

	"github.com/me/shipdesk/pkg/model"
)

// Definition describes one scanning station.
type Definition struct {
	Checkpoint model.Checkpoint
	Title      string
	Permission model.Permission
	Path       string
	Status     model.DeliveryStatus
}

var definitions = []Definition{
	{model.CheckpointCollection, "Collection", model.PermCollectionScan, "/collection/update-status", model.DeliveryCollected},
	{model.CheckpointSorting, "Sorting", model.PermSortingScan, "/pickup-sort/update-status", model.DeliverySorting},
	{model.CheckpointLoading, "Loading", model.PermLoadingScan, "/load/update-status", model.DeliveryLoading},
	{model.CheckpointArrival, "Arrival at hub", model.PermArrivalScan, "/arrival/update-status", model.DeliveryArrivedAtHub},
	{model.CheckpointDepotLoading, "Loading at hub", model.PermDepotLoadingScan, "/depot/update-status", model.DeliveryLoadedAtHub},
	{model.CheckpointDeliveryCompleted, "Delivery completed", model.PermDeliveryComplete, "/delivery/update-status", model.DeliveryDelivered},
}

// Definitions returns every checkpoint in route order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition of c.
func Lookup(c model.Checkpoint) (Definition, error) {
	for _, d := range definitions {
		if d.Checkpoint == c {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("unknown checkpoint %q", c)
}

// SortingCheckPath is the page that verifies sorting without a status change.
const SortingCheckPath = "/pickup-sort/check"
