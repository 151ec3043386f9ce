package domain

// TokenClass distinguishes the two credential classes issued by the token
// provider. Both carry the same claim set; only the class marker and expiry
// window differ.
type TokenClass string

const (
	TokenAccess  TokenClass = "ACCESS"
	TokenRefresh TokenClass = "REFRESH"
)
