package model

// Customer is a buyer identified by email when one is given.
// Empty optional fields mean the value was not provided.
type Customer struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Address string
}

// CustomerInput is the raw customer block of a cart submission.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}
