package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	logger "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Logger"
	hardware_models "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Models/hardware"
	interfaces "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Repository/Interfaces"
)

// DevicesTable is the table device rows are written to
const DevicesTable = "devices"

var _ interfaces.DeviceRepository = (*PostgrestDeviceRepository)(nil)

type PostgrestDeviceRepository struct {
	client *postgrest.Client
	logger *logger.Logger
}

func NewPostgrestDeviceRepository(client *postgrest.Client, log *logger.Logger) *PostgrestDeviceRepository {
	return &PostgrestDeviceRepository{client: client, logger: log.WithComponent("device_repository")}
}

// Insert device (single attempt, no upsert)
func (r *PostgrestDeviceRepository) InsertDevice(ctx context.Context, device hardware_models.Device) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.WithField("device_id", device.DeviceID).Debug("inserting device row")

	body, _, err := r.client.From(DevicesTable).
		Insert(device, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert device %s: %w", device.DeviceID, err)
	}

	return ensureBodyNotEmpty(body), nil
}
