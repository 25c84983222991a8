package types

type CreateDeviceRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SetSecretRequest struct {
	Secret string `json:"secret"`
}

// AttachUserRequest attaches an existing user (by userId) or provisions a new
// one from email/phone, then links them to the device.
type AttachUserRequest struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Role   string `json:"role,omitempty"`
}

type MemberInfo struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	ScheduleID *int64 `json:"scheduleId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type ScheduleAssignment struct {
	ScheduleID *int64 `json:"scheduleId"`
}

// UserDeviceInfo is one entry of "my devices" for an authenticated user.
type UserDeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
