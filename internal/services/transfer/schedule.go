package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// weekDayNames is Monday-first, matching the unit's weekday boolean array.
var weekDayNames = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeekDaysToNames converts a Monday-first boolean array into the weekday
// name list stored on a schedule.
func WeekDaysToNames(weekDays [7]bool) []string {
	names := []string{}
	for i, set := range weekDays {
		if set {
			names = append(names, weekDayNames[i])
		}
	}
	return names
}

// NamesToWeekDays is the reverse of WeekDaysToNames; unknown names are
// ignored.
func NamesToWeekDays(names []string) [7]bool {
	var weekDays [7]bool
	for _, name := range names {
		for i, known := range weekDayNames {
			if name == known {
				weekDays[i] = true
			}
		}
	}
	return weekDays
}

// ReadScheduleConfigurations pulls every schedule from a unit and persists
// it with its scene links. Requires the scene reader's address map: scene
// addresses that cannot be resolved against it are logged and skipped
// without failing the schedule. Schedules with no scene references are
// skipped entirely.
func (s *Service) ReadScheduleConfigurations(ctx context.Context, unit controller.Unit, projectID string, sceneMap SceneAddressMap, unitID *string) ([]models.Schedule, error) {
	var created []models.Schedule

	schedules, err := s.client.GetAllSchedulesInformation(ctx, unit)
	if err != nil {
		log.Printf("Warning: failed to read schedules from %s: %v", unit.IP, err)
		return created, nil
	}

	for _, info := range schedules {
		if len(info.SceneAddresses) == 0 {
			continue
		}

		daysJSON, err := json.Marshal(WeekDaysToNames(info.WeekDays))
		if err != nil {
			log.Printf("Warning: failed to encode weekdays for schedule %q: %v", info.Name, err)
			continue
		}

		var sceneIDs []string
		for _, sceneAddress := range info.SceneAddresses {
			sceneID, ok := sceneMap[strconv.Itoa(sceneAddress)]
			if !ok {
				log.Printf("Warning: schedule %q references unknown scene address %d", info.Name, sceneAddress)
				continue
			}
			sceneIDs = append(sceneIDs, sceneID)
		}

		schedule := models.Schedule{
			ProjectID:  projectID,
			Name:       info.Name,
			Time:       fmt.Sprintf("%02d:%02d", info.Hour, info.Minute),
			Days:       string(daysJSON),
			Enabled:    info.Enabled,
			SourceUnit: unitID,
		}
		if err := s.scheduleRepo.CreateWithScenes(ctx, &schedule, sceneIDs); err != nil {
			log.Printf("Warning: failed to persist schedule %q: %v", info.Name, err)
			continue
		}
		created = append(created, schedule)
	}

	return created, ctx.Err()
}
