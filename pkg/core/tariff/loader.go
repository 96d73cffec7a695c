package tariff

import (
	"fmt"

	"solar_payback/pkg/core/utils"
)

// LoadSchedule reads a Fio B schedule from path (.yaml, .yml, .hjson or .json)
// and validates it.
func LoadSchedule(path string) (FioBSchedule, error) {
	var schedule FioBSchedule
	if err := utils.DecodeConfigFile(path, &schedule); err != nil {
		return FioBSchedule{}, fmt.Errorf("failed to load Fio B schedule: %w", err)
	}
	if err := schedule.Validate(); err != nil {
		return FioBSchedule{}, err
	}
	return schedule, nil
}

// ParseSchedule decodes an in-memory schedule document of the given extension.
func ParseSchedule(ext string, data []byte) (FioBSchedule, error) {
	var schedule FioBSchedule
	if err := utils.DecodeConfig(ext, data, &schedule); err != nil {
		return FioBSchedule{}, fmt.Errorf("failed to parse Fio B schedule: %w", err)
	}
	if err := schedule.Validate(); err != nil {
		return FioBSchedule{}, err
	}
	return schedule, nil
}
