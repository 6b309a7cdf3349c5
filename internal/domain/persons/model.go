package persons

import "time"

// Person is an account holder in the ledger: an operator, a customer or a
// service account. Identity is the integer id; transactions reference it
// without a foreign key, so deleting a person leaves its transactions behind.
type Person struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
