package compliance

import (
	"slices"

	"carewatch/pkg/types"
)

const (
	// ExpiringWindowDays is how far ahead a verified document counts as
	// expiring in a verdict.
	ExpiringWindowDays = 30
	// ScanLookaheadDays bounds the expiry scan that feeds reminders.
	ScanLookaheadDays = 60
	// HighPriorityThresholdDays and below get high priority notifications.
	HighPriorityThresholdDays = 7
)

type PolicyEntry struct {
	Category types.DocumentCategory `json:"category"`
	Label    string                 `json:"label"`
}

var requiredCategories = []PolicyEntry{
	{Category: types.CategoryWorkerScreening, Label: "NDIS Worker Screening Check"},
	{Category: types.CategoryWorkingWithChildren, Label: "Working With Children Check"},
	{Category: types.CategoryFirstAid, Label: "First Aid Certificate"},
	{Category: types.CategoryCPR, Label: "CPR Certificate"},
	{Category: types.CategoryWorkerOrientation, Label: "NDIS Worker Orientation Module"},
}

var optionalLabels = map[types.DocumentCategory]string{
	types.CategoryDriversLicence:   "Driver's Licence",
	types.CategoryVehicleInsurance: "Vehicle Insurance",
	types.CategoryInfectionControl: "Infection Control Training",
	types.CategoryOther:            "Other Document",
}

// Descending. A reminder fires when a document is exactly this many days
// from expiry.
var reminderOffsets = []int{60, 30, 14, 7, 3, 1}

// RequiredCategories returns the categories every worker must hold, in
// policy order.
func RequiredCategories() []PolicyEntry {
	return slices.Clone(requiredCategories)
}

func ReminderOffsets() []int {
	return slices.Clone(reminderOffsets)
}

func IsReminderOffset(days int) bool {
	return slices.Contains(reminderOffsets, days)
}

func IsRequired(category types.DocumentCategory) bool {
	return slices.ContainsFunc(requiredCategories, func(e PolicyEntry) bool {
		return e.Category == category
	})
}

// Label returns the human label for any category, falling back to the raw
// identifier for unknown values.
func Label(category types.DocumentCategory) string {
	for _, e := range requiredCategories {
		if e.Category == category {
			return e.Label
		}
	}
	if label, ok := optionalLabels[category]; ok {
		return label
	}
	return string(category)
}
