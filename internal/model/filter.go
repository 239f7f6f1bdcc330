package model

// ListFilter narrows a listing.  An empty UserID lists every owner's rows and
// a zero Limit returns all matching rows.
type ListFilter struct {
	UserID string
	Limit  int
	Offset int
}
