package dto

import (
	"time"

	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/utils"
)

// StampDTO represents an attendance stamp in API responses. WorkTime is a
// derived "HH:MM" display value, present only once the stamp is closed.
type StampDTO struct {
	StampID  string     `json:"stamp_id"`
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
	WorkTime string     `json:"work_time,omitempty"`
}

// ToStampDTO converts a Stamp model to StampDTO
func ToStampDTO(stamp models.Stamp) StampDTO {
	dto := StampDTO{
		StampID:  stamp.StampID,
		ClockIn:  stamp.ClockIn,
		ClockOut: stamp.ClockOut,
	}

	if stamp.ClockOut != nil {
		dto.WorkTime = utils.FormatWorkTime(stamp.ClockIn, *stamp.ClockOut)
	}

	return dto
}

// ToStampDTOs converts a slice of stamps
func ToStampDTOs(stamps []models.Stamp) []StampDTO {
	items := make([]StampDTO, len(stamps))
	for i, stamp := range stamps {
		items[i] = ToStampDTO(stamp)
	}
	return items
}
