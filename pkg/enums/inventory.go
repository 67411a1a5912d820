package enums

import "fmt"

// StorageLocation identifies where an inventory item is kept.
type StorageLocation string

const (
	StorageLocationRefrigerator StorageLocation = "refrigerator"
	StorageLocationFreezer      StorageLocation = "freezer"
	StorageLocationPantry       StorageLocation = "pantry"
	StorageLocationSpiceRack    StorageLocation = "spice_rack"
	StorageLocationOther        StorageLocation = "other"
)

var validStorageLocations = []StorageLocation{
	StorageLocationRefrigerator,
	StorageLocationFreezer,
	StorageLocationPantry,
	StorageLocationSpiceRack,
	StorageLocationOther,
}

// String implements fmt.Stringer.
func (l StorageLocation) String() string {
	return string(l)
}

// IsValid reports whether the value is a known StorageLocation.
func (l StorageLocation) IsValid() bool {
	for _, candidate := range validStorageLocations {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseStorageLocation converts raw input into a StorageLocation.
func ParseStorageLocation(value string) (StorageLocation, error) {
	for _, candidate := range validStorageLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage location %q", value)
}

// CoerceStorageLocation maps unknown values to the OTHER bucket on load.
func CoerceStorageLocation(value string) StorageLocation {
	if parsed, err := ParseStorageLocation(value); err == nil {
		return parsed
	}
	return StorageLocationOther
}

// ItemStatus is the derived stock state of an inventory item.
type ItemStatus string

const (
	ItemStatusAvailable  ItemStatus = "available"
	ItemStatusLow        ItemStatus = "low"
	ItemStatusExpired    ItemStatus = "expired"
	ItemStatusOutOfStock ItemStatus = "out_of_stock"
)

var validItemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusLow,
	ItemStatusExpired,
	ItemStatusOutOfStock,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}

// CoerceItemStatus maps unknown values to AVAILABLE; the next status refresh
// recomputes the real value anyway.
func CoerceItemStatus(value string) ItemStatus {
	if parsed, err := ParseItemStatus(value); err == nil {
		return parsed
	}
	return ItemStatusAvailable
}

// ChangeType labels an inventory change-log entry.
type ChangeType string

const (
	ChangeTypeAdded           ChangeType = "added"
	ChangeTypeRemoved         ChangeType = "removed"
	ChangeTypeQuantityUpdated ChangeType = "quantity_updated"
	ChangeTypeConsumed        ChangeType = "consumed"
	ChangeTypeExpired         ChangeType = "expired"
)

var validChangeTypes = []ChangeType{
	ChangeTypeAdded,
	ChangeTypeRemoved,
	ChangeTypeQuantityUpdated,
	ChangeTypeConsumed,
	ChangeTypeExpired,
}

// String implements fmt.Stringer.
func (c ChangeType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChangeType.
func (c ChangeType) IsValid() bool {
	for _, candidate := range validChangeTypes {
		if candidate == c {
			return true
		}
	}
	return false
}
