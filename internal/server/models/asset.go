package models

import "time"

// Asset is a tracked physical item.
type Asset struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	Status       string     `json:"status"`
	Location     string     `json:"location"`
	CreatedBy    int64      `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MaintenanceLog records a service visit against an asset. Cost is kept in
// cents.
type MaintenanceLog struct {
	ID             int64     `json:"id"`
	AssetID        int64     `json:"asset_id"`
	ServiceDate    time.Time `json:"service_date"`
	TechnicianName string    `json:"technician_name"`
	Description    string    `json:"description"`
	Cost           Cents     `json:"cost"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	UploadStatusPending  = "pending"
	UploadStatusUploaded = "uploaded"
)

// Attachment is a document stored in object storage and linked to an asset.
type Attachment struct {
	ID           int64     `json:"id"`
	AssetID      int64     `json:"asset_id"`
	FileName     string    `json:"file_name"`
	StorageKey   string    `json:"-"`
	ContentType  string    `json:"content_type"`
	UploadStatus string    `json:"upload_status"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}
