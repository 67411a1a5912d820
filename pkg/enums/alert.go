package enums

import "fmt"

// AlertType labels a derived inventory warning.
type AlertType string

const (
	AlertTypeExpired          AlertType = "expired"
	AlertTypeExpiringSoon     AlertType = "expiring_soon"
	AlertTypeExpiringThisWeek AlertType = "expiring_this_week"
	AlertTypeLowStock         AlertType = "low_stock"
	AlertTypeOutOfStock       AlertType = "out_of_stock"
)

var validAlertTypes = []AlertType{
	AlertTypeExpired,
	AlertTypeExpiringSoon,
	AlertTypeExpiringThisWeek,
	AlertTypeLowStock,
	AlertTypeOutOfStock,
}

// String implements fmt.Stringer.
func (a AlertType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertType.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw input into an AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}

// AlertSeverity ranks how urgently an alert should surface.
type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "critical"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityInfo     AlertSeverity = "info"
)

var validAlertSeverities = []AlertSeverity{
	AlertSeverityCritical,
	AlertSeverityWarning,
	AlertSeverityInfo,
}

// String implements fmt.Stringer.
func (s AlertSeverity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AlertSeverity.
func (s AlertSeverity) IsValid() bool {
	for _, candidate := range validAlertSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}
