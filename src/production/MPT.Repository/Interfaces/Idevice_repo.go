package interfaces

import (
	"context"
	"encoding/json"

	hardware_models "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Models/hardware"
)

type DeviceRepository interface {
	// Insert device, returning the rows echoed back by the backend
	InsertDevice(ctx context.Context, device hardware_models.Device) (json.RawMessage, error)
}
