// Package api contains request contracts for the LAS Analyzer HTTP API.
package api

// InterpretRequest is the body of POST /api/wells/{id}/interpret. From and To are
// pointers so a missing bound can be told apart from zero.
type InterpretRequest struct {
	From   *float64 `json:"from"`
	To     *float64 `json:"to"`
	Curves []string `json:"curves" validate:"dive,curvename"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
