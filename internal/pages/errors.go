package pages

import "errors"

// Sentinel errors for expected business outcomes. Structural failures
// (missing elements, timeouts) come back as ordinary wrapped errors; these
// are the negatives a test may legitimately branch on or skip over.
var (
	// ErrTooFewResults means a search returned fewer products than the
	// caller's minimum; the page has already navigated back to the homepage.
	ErrTooFewResults = errors.New("too few search results")

	// ErrLoginFailed means the credentials were submitted but the logout
	// affordance never appeared.
	ErrLoginFailed = errors.New("login failed")

	// ErrSoldOut means the product cannot be added to the cart at all.
	ErrSoldOut = errors.New("product is sold out")

	// ErrNoAvailableOption means every entry in the option dropdown is
	// marked sold out; the dropdown has been closed again.
	ErrNoAvailableOption = errors.New("no available product option")

	// ErrQuantityRejected means the cart raised a confirmation dialog while a
	// quantity was being edited; the dialog was dismissed and the change did
	// not take effect.
	ErrQuantityRejected = errors.New("quantity change rejected")

	// ErrAlreadyLoggedOut means logout was requested with no active session.
	ErrAlreadyLoggedOut = errors.New("already logged out")

	// ErrItemIndex means a cart operation referenced an item position that
	// does not exist; the cart was left untouched.
	ErrItemIndex = errors.New("cart item index out of range")
)
