package dispatch

import "errors"

var (
	// ErrPrecondition wraps every dispatch attempt rejected before any write.
	ErrPrecondition       = errors.New("dispatch precondition violated")
	ErrEmptyCard          = errors.New("card has no items")
	ErrUnresolvedSupplier = errors.New("card supplier is not resolved")

	ErrBoardNotFound   = errors.New("board not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidSupplier = errors.New("supplier name is empty")
	ErrInvalidPosition = errors.New("position out of range")

	// ErrCollaborator wraps failures of catalog, supplier or order writes.
	// The board is left as it was before the call.
	ErrCollaborator = errors.New("external write failed")
)
