package console

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/everest-platform/console/models"
)

// WizardMode tells whether a form creates a new object or edits one.
type WizardMode string

const (
	ModeNew  WizardMode = "new"
	ModeEdit WizardMode = "edit"
)

// ScheduleForm holds the values of the backup schedule form.
type ScheduleForm struct {
	Name            string
	StorageLocation string
	// RetentionCopies is kept as text, as typed by the user.
	RetentionCopies string
	TimeSelection
}

// ShortUID returns five random lowercase hex characters.
func ShortUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}

// SameSchedule returns the schedule that already runs at cron, or nil. In
// edit mode the schedule being edited does not count.
func SameSchedule(schedules []models.BackupSchedule, mode WizardMode, cron, name string) *models.BackupSchedule {
	for i := range schedules {
		s := &schedules[i]
		if mode == ModeEdit && s.Name == name {
			continue
		}
		if s.Schedule == cron {
			return s
		}
	}
	return nil
}

// SameStorageLocation returns the schedule that already writes to storage,
// or nil. In edit mode the schedule being edited does not count.
func SameStorageLocation(schedules []models.BackupSchedule, mode WizardMode, storage, name string) *models.BackupSchedule {
	for i := range schedules {
		s := &schedules[i]
		if mode == ModeEdit && s.Name == name {
			continue
		}
		if s.BackupStorageName == storage {
			return s
		}
	}
	return nil
}

// ScheduleModalDefaultValues returns the initial form values. Editing starts
// from selected; anything else starts a new daily schedule with a generated
// name. Expressions the time picker cannot show fall back to its defaults.
func ScheduleModalDefaultValues(mode WizardMode, selected *models.BackupSchedule) ScheduleForm {
	if mode == ModeEdit && selected != nil {
		ts, err := TimeSelectionFromCron(selected.Schedule)
		if err != nil {
			ts = DefaultTimeSelection()
		}
		return ScheduleForm{
			Name:            selected.Name,
			StorageLocation: selected.BackupStorageName,
			RetentionCopies: strconv.Itoa(int(selected.RetentionCopies)),
			TimeSelection:   ts,
		}
	}
	return ScheduleForm{
		Name:            "backup-" + ShortUID(),
		RetentionCopies: "0",
		TimeSelection:   DefaultTimeSelection(),
	}
}
