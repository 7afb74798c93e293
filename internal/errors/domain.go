package errors

import (
	"fmt"
)

// DuplicateItemError reports a catalog integrity violation: the same item
// name appeared twice with a conflicting price or cost. Identical
// restatements of a row are tolerated; a conflict aborts the run, since
// picking either row would silently skew every downstream total.
type DuplicateItemError struct {
	Item string
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("duplicate catalog item %q with conflicting price or cost", e.Item)
}

// MalformedQuantityError reports a non-numeric or negative quantity cell in
// the order ledger. The pipeline fails fast on these: a negative quantity
// would corrupt every aggregate undetected, and dropping the row would
// desynchronize repeat-customer classification from the financial totals.
type MalformedQuantityError struct {
	Row   int
	Item  string
	Value string
}

func (e *MalformedQuantityError) Error() string {
	return fmt.Sprintf("malformed quantity %q for item %q in order row %d", e.Value, e.Item, e.Row)
}

// MissingColumnError reports a required column absent from an input table.
// Column presence is validated once at load time so that failures never
// surface in the middle of aggregation.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in %s table", e.Column, e.Table)
}

// NoCustomersError reports a degenerate dataset: the dataset-wide repeat
// rate divides by the unique-customer count, and zero customers is a
// genuine input-data error rather than a normal empty state.
type NoCustomersError struct{}

func (e *NoCustomersError) Error() string {
	return "no customers in dataset: repeat rate is undefined"
}
