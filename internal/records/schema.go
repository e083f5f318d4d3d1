package records

import "github.com/MarcoPoloResearchLab/jigong/internal/store"

// Collection names as stored on disk.
const (
	CollectionProjects     = "projects"
	CollectionAttendance   = "attendance"
	CollectionContacts     = "contacts"
	CollectionPersonalInfo = "personalInfo"
	CollectionWageHistory  = "wageHistory"
	CollectionHolidays     = "holidays"
)

// SchemaVersion is the version new installations open at.
const SchemaVersion = 2

var schema = store.MustSchema(
	store.SchemaVersion{
		Version: 1,
		Collections: []store.CollectionDefinition{
			{Name: CollectionProjects, KeyPath: "id"},
			{Name: CollectionAttendance, KeyPath: "id"},
			{Name: CollectionContacts, KeyPath: "id"},
			{Name: CollectionPersonalInfo, KeyPath: "id"},
		},
	},
	store.SchemaVersion{
		Version: 2,
		Collections: []store.CollectionDefinition{
			{Name: CollectionWageHistory, KeyPath: "id"},
			{Name: CollectionHolidays, KeyPath: "id"},
		},
	},
)

// Schema returns the tracker's collection schema.
func Schema() store.Schema {
	return schema
}
