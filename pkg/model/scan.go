package model

import "time"

// Checkpoint is a physical scanning station along the delivery route.
type Checkpoint string

const (
	CheckpointCollection        Checkpoint = "collection"
	CheckpointSorting           Checkpoint = "sorting"
	CheckpointLoading           Checkpoint = "loading"
	CheckpointArrival           Checkpoint = "arrival"
	CheckpointDepotLoading      Checkpoint = "depot_loading"
	CheckpointDeliveryCompleted Checkpoint = "delivery_completed"
)

// ScanEvent is one QR scan recorded locally.
type ScanEvent struct {
	ID             string     `json:"id"`
	Checkpoint     Checkpoint `json:"checkpoint"`
	DocumentNumber string     `json:"document_number"`
	Username       string     `json:"username"`
	OK             bool       `json:"ok"`
	Message        string     `json:"message,omitempty"`
	ScannedAt      time.Time  `json:"scanned_at"`
}

// ImportKind selects the CSV import endpoint.
type ImportKind string

const (
	ImportPickups    ImportKind = "pickups"
	ImportDeliveries ImportKind = "deliveries"
)

// ImportRecord is the local log entry for one CSV import.
type ImportRecord struct {
	ID         string     `json:"id"`
	Kind       ImportKind `json:"kind"`
	Filename   string     `json:"filename"`
	Rows       int        `json:"rows"`
	Size       int64      `json:"size"`
	ArchiveURI string     `json:"archive_uri,omitempty"`
	OK         bool       `json:"ok"`
	Message    string     `json:"message,omitempty"`
	Username   string     `json:"username"`
	CreatedAt  time.Time  `json:"created_at"`
}
