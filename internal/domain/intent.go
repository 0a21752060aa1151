package domain

// IntentCategory is the topic label used to route a message to a reply.
type IntentCategory string

const (
	IntentEnrollment IntentCategory = "enrollment"
	IntentGreeting   IntentCategory = "greeting"
	IntentChildTone  IntentCategory = "childTone"
	IntentPricing    IntentCategory = "pricing"
	IntentBooking    IntentCategory = "booking"
	IntentPrograms   IntentCategory = "programs"
	IntentProjects   IntentCategory = "projects"
	IntentTeachers   IntentCategory = "teachers"
	IntentEquipment  IntentCategory = "equipment"
	IntentProgress   IntentCategory = "progress"
	IntentScheduling IntentCategory = "scheduling"
	IntentGeneral    IntentCategory = "general"
)

// IntentCategories lists every defined category in classification priority order.
func IntentCategories() []IntentCategory {
	return []IntentCategory{
		IntentEnrollment,
		IntentGreeting,
		IntentChildTone,
		IntentPricing,
		IntentBooking,
		IntentPrograms,
		IntentProjects,
		IntentTeachers,
		IntentEquipment,
		IntentProgress,
		IntentScheduling,
		IntentGeneral,
	}
}

// Valid reports whether c is one of the defined categories.
func (c IntentCategory) Valid() bool {
	for _, known := range IntentCategories() {
		if c == known {
			return true
		}
	}
	return false
}
