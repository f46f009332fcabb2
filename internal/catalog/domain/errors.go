package domain

import "errors"

// ErrProductNotFound signals an id with no catalog entry. A miss is a
// normal outcome, not a failure; callers distinguish it with errors.Is.
var ErrProductNotFound = errors.New("product not found")
