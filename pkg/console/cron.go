package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Frequency is how often a scheduled backup runs.
type Frequency string

const (
	FrequencyHourly  Frequency = "hour"
	FrequencyDaily   Frequency = "day"
	FrequencyWeekly  Frequency = "week"
	FrequencyMonthly Frequency = "month"
)

// AmPm is the half of a 12-hour clock.
type AmPm string

const (
	AM AmPm = "AM"
	PM AmPm = "PM"
)

// ErrUnsupportedCron is returned for expressions the time selection form
// cannot represent, such as lists, ranges and steps.
var ErrUnsupportedCron = errors.New("cron expression cannot be edited as a time selection")

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// TimeSelection is the schedule picker of the backup schedule form.
type TimeSelection struct {
	Frequency Frequency
	// Minute is 0-59.
	Minute int
	// Hour is 1-12 on a 12-hour clock.
	Hour    int
	AmPm    AmPm
	WeekDay time.Weekday
	// OnDay is the day of month, 1-31.
	OnDay int
}

// DefaultTimeSelection is a daily run at midnight.
func DefaultTimeSelection() TimeSelection {
	return TimeSelection{
		Frequency: FrequencyDaily,
		Minute:    0,
		Hour:      12,
		AmPm:      AM,
		WeekDay:   time.Monday,
		OnDay:     1,
	}
}

// ValidateCron parses expr as a standard five field cron expression.
func ValidateCron(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

func (t TimeSelection) validate() error {
	switch t.Frequency {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return fmt.Errorf("unknown frequency %q", t.Frequency)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d is out of range", t.Minute)
	}
	if t.Frequency == FrequencyHourly {
		return nil
	}
	if t.Hour < 1 || t.Hour > 12 {
		return fmt.Errorf("hour %d is out of range", t.Hour)
	}
	if t.AmPm != AM && t.AmPm != PM {
		return fmt.Errorf("unknown half of day %q", t.AmPm)
	}
	if t.Frequency == FrequencyWeekly && (t.WeekDay < time.Sunday || t.WeekDay > time.Saturday) {
		return fmt.Errorf("week day %d is out of range", t.WeekDay)
	}
	if t.Frequency == FrequencyMonthly && (t.OnDay < 1 || t.OnDay > 31) {
		return fmt.Errorf("day of month %d is out of range", t.OnDay)
	}
	return nil
}

func (t TimeSelection) hour24() int {
	h := t.Hour % 12
	if t.AmPm == PM {
		h += 12
	}
	return h
}

// CronFromTimeSelection renders t as a five field cron expression.
func CronFromTimeSelection(t TimeSelection) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	var expr string
	switch t.Frequency {
	case FrequencyHourly:
		expr = fmt.Sprintf("%d * * * *", t.Minute)
	case FrequencyDaily:
		expr = fmt.Sprintf("%d %d * * *", t.Minute, t.hour24())
	case FrequencyWeekly:
		expr = fmt.Sprintf("%d %d * * %d", t.Minute, t.hour24(), t.WeekDay)
	case FrequencyMonthly:
		expr = fmt.Sprintf("%d %d %d * *", t.Minute, t.hour24(), t.OnDay)
	}
	if err := ValidateCron(expr); err != nil {
		return "", err
	}
	return expr, nil
}

// TimeSelectionFromCron decomposes an expression produced by
// CronFromTimeSelection. Fields the expression does not set keep their
// defaults.
func TimeSelectionFromCron(expr string) (TimeSelection, error) {
	if err := ValidateCron(expr); err != nil {
		return TimeSelection{}, err
	}
	f := strings.Fields(expr)
	minute, hour, dom, month, dow := f[0], f[1], f[2], f[3], f[4]
	if month != "*" {
		return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
	}

	t := DefaultTimeSelection()
	var err error
	if t.Minute, err = cronNumber(minute); err != nil {
		return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
	}

	if hour == "*" {
		if dom != "*" || dow != "*" {
			return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
		}
		t.Frequency = FrequencyHourly
		return t, nil
	}
	h, err := cronNumber(hour)
	if err != nil {
		return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
	}
	t.Hour, t.AmPm = to12Hour(h)

	switch {
	case dom == "*" && dow == "*":
		t.Frequency = FrequencyDaily
	case dom == "*":
		d, err := cronNumber(dow)
		if err != nil {
			return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
		}
		t.Frequency = FrequencyWeekly
		t.WeekDay = time.Weekday(d % 7)
	case dow == "*":
		d, err := cronNumber(dom)
		if err != nil {
			return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
		}
		t.Frequency = FrequencyMonthly
		t.OnDay = d
	default:
		return TimeSelection{}, fmt.Errorf("%w: %q", ErrUnsupportedCron, expr)
	}
	return t, nil
}

func to12Hour(h int) (int, AmPm) {
	half := AM
	if h >= 12 {
		half = PM
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return h, half
}

func cronNumber(field string) (int, error) {
	return strconv.Atoi(field)
}

// ConvertCron shifts expr from one time zone to another using the current
// zone offsets. Minute and hour move by the offset difference. When the run
// moves to another day, a fixed week day or day of month moves with it,
// wrapping around the week or month. Expressions whose minute or hour is not
// a plain number are returned unchanged.
func ConvertCron(expr, fromTZ, toTZ string) (string, error) {
	return convertCronAt(expr, fromTZ, toTZ, time.Now())
}

func convertCronAt(expr, fromTZ, toTZ string, at time.Time) (string, error) {
	if err := ValidateCron(expr); err != nil {
		return "", err
	}
	from, err := time.LoadLocation(fromTZ)
	if err != nil {
		return "", fmt.Errorf("unknown time zone %q: %w", fromTZ, err)
	}
	to, err := time.LoadLocation(toTZ)
	if err != nil {
		return "", fmt.Errorf("unknown time zone %q: %w", toTZ, err)
	}
	_, fromOffset := at.In(from).Zone()
	_, toOffset := at.In(to).Zone()
	diff := (toOffset - fromOffset) / 60
	if diff == 0 {
		return expr, nil
	}

	f := strings.Fields(expr)
	minute, err := cronNumber(f[0])
	if err != nil {
		return expr, nil //nolint:nilerr
	}

	if f[1] == "*" {
		f[0] = strconv.Itoa(floorMod(minute+diff, 60))
		return strings.Join(f, " "), nil
	}
	hour, err := cronNumber(f[1])
	if err != nil {
		return expr, nil //nolint:nilerr
	}

	total := hour*60 + minute + diff
	dayShift := floorDiv(total, 24*60)
	total = floorMod(total, 24*60)
	f[0] = strconv.Itoa(total % 60)
	f[1] = strconv.Itoa(total / 60)

	if dayShift != 0 {
		if dow, err := cronNumber(f[4]); err == nil {
			f[4] = strconv.Itoa(floorMod(dow%7+dayShift, 7))
		}
		if dom, err := cronNumber(f[2]); err == nil {
			f[2] = strconv.Itoa(floorMod(dom-1+dayShift, 31) + 1)
		}
	}

	out := strings.Join(f, " ")
	if err := ValidateCron(out); err != nil {
		return "", err
	}
	return out, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
