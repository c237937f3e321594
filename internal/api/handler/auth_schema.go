package handler

// --- Request types ---

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	OrgName  string `json:"orgName"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OrgID    string `json:"orgId"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type switchOrgRequest struct {
	OrgID string `json:"orgId" validate:"required"`
}

// --- Response types ---
// Transport-owned so the JSON contract is not coupled to domain changes.

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}

type orgResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tokensResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type signupResponse struct {
	OK     bool           `json:"ok"`
	User   userResponse   `json:"user"`
	Org    orgResponse    `json:"org"`
	Tokens tokensResponse `json:"tokens"`
}

type loginResponse struct {
	OK          bool           `json:"ok"`
	User        userResponse   `json:"user"`
	ActiveOrgID string         `json:"activeOrgId"`
	Tokens      tokensResponse `json:"tokens"`
}

type refreshResponse struct {
	OK     bool           `json:"ok"`
	Tokens tokensResponse `json:"tokens"`
}

type switchOrgResponse struct {
	OK          bool   `json:"ok"`
	ActiveOrgID string `json:"activeOrgId"`
	Access      string `json:"access"`
}

type okResponse struct {
	OK bool `json:"ok"`
}
