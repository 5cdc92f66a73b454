package identity

// Claims represents the verified identity of a caller.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// User is the account shape returned by the signin/signup stubs.
// No accounts are persisted; the id is derived at token issuance.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
