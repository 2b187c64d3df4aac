package domain

import "time"

type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "Available"
	ItemStatusUnavailable ItemStatus = "Unavailable"
)

// Item is one catalog entry. Quantity is the owned stock count; Borrowed
// is the currently checked-out count and is mutated only by the issue
// path and the return reconciler. Status is derived: Available iff
// Borrowed < Quantity.
type Item struct {
	ID        int32      `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Quantity  int32      `json:"quantity"`
	Borrowed  int32      `json:"borrowed"`
	Status    ItemStatus `json:"status"`
	ImagePath string     `json:"image_path,omitempty"`
}

// Available returns the number of units currently on the shelf.
func (i *Item) Available() int32 {
	if i.Borrowed > i.Quantity {
		return 0
	}
	return i.Quantity - i.Borrowed
}

// ArchivedItem is a catalog entry moved to the archive. Archives are kept
// for one year (ExpiresOn) before the purge job removes them.
type ArchivedItem struct {
	ArchiveID  int32      `json:"archive_id"`
	ItemID     int32      `json:"item_id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Quantity   int32      `json:"quantity"`
	Borrowed   int32      `json:"borrowed"`
	Status     ItemStatus `json:"status"`
	ImagePath  string     `json:"image_path,omitempty"`
	ArchivedOn time.Time  `json:"archived_on"`
	ExpiresOn  time.Time  `json:"expires_on"`
}
