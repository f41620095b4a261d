package dto

type ConnectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

type InstallChoiceRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=accepted dismissed" example:"accepted"`
}

type InstallStatus struct {
	Available  bool `json:"available"`
	Installing bool `json:"installing"`
}

type StatusResponse struct {
	Network string        `json:"network" example:"online"`
	Install InstallStatus `json:"install"`
}

type InstallResponse struct {
	// Empty when no prompt was available.
	Outcome string `json:"outcome" example:"accepted"`
}
