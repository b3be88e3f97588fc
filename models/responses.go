// path: models/responses.go
package models

// CreateReportResp is the body for POST /api/reports.
type CreateReportResp struct {
	OK     bool   `json:"ok"`
	ID     string `json:"id,omitempty"`
	Report any    `json:"report,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SessionResp is the body for POST /api/auth/login and /register.
type SessionResp struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
	User  any    `json:"user,omitempty"`
	Error string `json:"error,omitempty"`
}
