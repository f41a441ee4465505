package db

// Page bounds one page of a listing query.
type Page struct {
	Limit  int
	Offset int
}
