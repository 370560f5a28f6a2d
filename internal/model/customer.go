// internal/model/customer.go
package model

// Customer is one row of the customers table. ID is assigned by the
// database on insert and is zero until then.
type Customer struct {
    ID          int64  `db:"customer_id" json:"id"`
    FirstName   string `db:"first_name" json:"first_name"`
    LastName    string `db:"last_name" json:"last_name"`
    DateOfBirth Date   `db:"date_of_birth" json:"date_of_birth"`
}
