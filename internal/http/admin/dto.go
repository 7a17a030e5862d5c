package admin

// -------------------------
// Customer DTOs
// -------------------------

type CustomerResponse struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

// -------------------------
// Lead feed DTOs
// -------------------------

type LeadsResponse struct {
	Total int        `json:"total"`
	Leads []LeadItem `json:"leads"`
}

type LeadItem struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
