package domain

// AuthorizeMutation decides whether identity may change listing.
// The listing must be fetched from the store within the same request.
//
// It returns nil to allow, ErrUnauthenticated when identity is nil, and
// ErrForbidden when the caller is not the owner.
func AuthorizeMutation(identity *Identity, listing *Listing) error {
	if identity == nil || identity.UserID == "" {
		return ErrUnauthenticated
	}
	if listing == nil || identity.UserID != listing.OwnerID {
		return ErrForbidden
	}
	return nil
}
