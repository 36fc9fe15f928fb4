package dto

// SuspendUserRequest payload for the moderation panel.
type SuspendUserRequest struct {
	IsSuspended *bool `json:"isSuspended"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}
