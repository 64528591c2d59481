package domain

// MaterialMeta is the slice of material metadata the order core needs
// from the metadata collaborator: identity, display label, the initial
// physical location derived from availability, the raw descriptive
// metadata to persist, and the orderability classification.
type MaterialMeta struct {
	RecordID string
	Label    string
	Location RecordLocation
	Meta     string

	// OrderableByForm is true when the material's access rules require
	// a manual application before it can be ordered.
	OrderableByForm bool
}

// UserInfo is the patron identity supplied with each interaction; the
// user row is upserted from it.
type UserInfo struct {
	UserID      string
	DisplayName string
	Email       string
	Verified    bool
}
