package domain

// User is the domain entity for a stored user record.
// ID is assigned by the store on first save and never changes afterwards.
type User struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}
