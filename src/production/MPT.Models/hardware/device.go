package hardware_models

// Device represents a row of the devices table
type Device struct {
	DeviceID       string  `json:"device_id" db:"device_id"`
	DevicePassword *string `json:"device_password" db:"device_password"` // null when not provided
}

// NewDevice builds a device row; a nil password is sent as null
func NewDevice(deviceID string, password *string) Device {
	return Device{DeviceID: deviceID, DevicePassword: password}
}
