package controllers

// MessageResponse is returned by endpoints that have no resource to return.
type MessageResponse struct {
	Message string `json:"message" example:"Gasto eliminado"`
}
