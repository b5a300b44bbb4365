package models

// Category mirrors one entry of the remote category list. Element 0 of that
// list is a reserved "uncategorized" sentinel and is skipped when building
// the name list used for matching.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LedgerTransaction mirrors one entry of the remote transaction history.
// Only the metadata field is consumed, as the dedup key.
type LedgerTransaction struct {
	Metadata string `json:"meta_data"`
}

// CategoryNames returns the list of names used for matching, skipping the
// reserved leading sentinel.
func CategoryNames(categories []Category) []string {
	if len(categories) <= 1 {
		return nil
	}
	names := make([]string, 0, len(categories)-1)
	for _, c := range categories[1:] {
		names = append(names, c.Name)
	}
	return names
}
