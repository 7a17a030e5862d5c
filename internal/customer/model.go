package customer

// Customer is a single contact submission. Rows are append-only: once
// written, no field is ever updated and no row is ever deleted.
type Customer struct {
	Identity  string `db:"identity"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	CreatedAt string `db:"created_at"` // YYYY-MM-DD, assigned by the store
}
