package customer

const getAllCustomersSQL = `
SELECT identity, name, email, phone, created_at
FROM customer
ORDER BY rowid
`

const getCustomerSQL = `
SELECT identity, name, email, phone, created_at
FROM customer
WHERE identity = ?
`

const createCustomerSQL = `
INSERT INTO customer (
    identity, name, email, phone, created_at
) VALUES (?, ?, ?, ?, ?)
`

// Mints the next surrogate identity and inserts in one statement. SQLite
// allows a single writer at a time, so MAX+1 and the insert are atomic and
// two concurrent inserts can never mint the same identity.
const createCustomerSurrogateSQL = `
INSERT INTO customer (identity, name, email, phone, created_at)
SELECT CAST(COALESCE(MAX(CAST(identity AS INTEGER)), 0) + 1 AS TEXT), ?, ?, ?, ?
FROM customer
`

const lastInsertedIdentitySQL = `
SELECT identity FROM customer WHERE rowid = last_insert_rowid()
`

const countCustomersSQL = `
SELECT COUNT(*) FROM customer
`

const customerExistsSQL = `
SELECT EXISTS(
    SELECT 1 FROM customer WHERE identity = ?
)
`
