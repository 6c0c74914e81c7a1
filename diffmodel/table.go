package diffmodel

import "github.com/google/uuid"

// Table is the adapter's view of one collection of same-typed components:
// enumeration and lookup by id. Tables are supplied by the adapter, one
// per ComponentType; the core never constructs or stores components
// itself.
type Table interface {
	// GetComponent returns the component with the given id, or an error
	// wrapping ErrUnknownComponentType-like lookup failure if it isn't
	// present.
	GetComponent(id string) (interface{}, error)
	// AllComponents returns every component currently in the table, in a
	// stable order.
	AllComponents() []TableEntry
	// AddComponent inserts a new component under the given id.
	AddComponent(id string, component interface{}) error
	// DeleteComponent removes the component with the given id.
	DeleteComponent(id string) error
}

// TableEntry pairs a component's id with the component itself, as
// returned by Table.AllComponents.
type TableEntry struct {
	ID        uuid.UUID
	Component interface{}
}

// Intersection is the result of comparing two Tables' id sets: which ids
// are only in the older table (Deleted), only in the newer table
// (Added), and in both (Common, against which properties are diffed).
type Intersection struct {
	Added   []TableEntry
	Deleted []TableEntry
	Common  []CommonEntry
}

// CommonEntry pairs the older and newer versions of a component that
// exists, under the same id, in both tables being compared.
type CommonEntry struct {
	ID    uuid.UUID
	Older interface{}
	Newer interface{}
}

// Intersect compares two tables of the same component type by id,
// classifying every id as added, deleted, or common to both sides.
func Intersect(older, newer Table) Intersection {
	olderByID := make(map[uuid.UUID]interface{})
	for _, e := range older.AllComponents() {
		olderByID[e.ID] = e.Component
	}
	newerByID := make(map[uuid.UUID]interface{})
	for _, e := range newer.AllComponents() {
		newerByID[e.ID] = e.Component
	}

	var result Intersection
	for _, e := range older.AllComponents() {
		if nc, ok := newerByID[e.ID]; ok {
			result.Common = append(result.Common, CommonEntry{ID: e.ID, Older: e.Component, Newer: nc})
		} else {
			result.Deleted = append(result.Deleted, e)
		}
	}
	for _, e := range newer.AllComponents() {
		if _, ok := olderByID[e.ID]; !ok {
			result.Added = append(result.Added, e)
		}
	}
	return result
}
