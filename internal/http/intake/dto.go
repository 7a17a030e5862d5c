package intake

// CreateCustomerRequest is the public intake payload. Identity is only
// honored in natural-key deployments; surrogate deployments reject it.
type CreateCustomerRequest struct {
	Identity string `json:"identity" form:"identity"`
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
}

type CustomerResponse struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}
