package utils

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/lasttime-service/internal/pkg/errors"
)

const (
	// Упакованное HHMMSS меньше 06:00:00 относится к предыдущим суткам
	midnightThreshold   = 60_000
	dayBoundaryAddition = 240_000
	packedTimeDigits    = 6
)

// ParseClock переводит "HH:MM:SS" в секунды от полуночи. Часы могут быть больше 23.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "clock %q", s)
	}

	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "clock %q", s)
		}
		values[i] = v
	}

	return values[0]*3600 + values[1]*60 + values[2], nil
}

// FormatClock форматирует секунды как H:MM:SS. Отрицательные значения не обрезаются.
func FormatClock(seconds int) string {
	hour := seconds / 3600
	minute := (seconds / 60) % 60
	second := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hour, minute, second)
}

// SubtractSectionTime вычитает время в пути из времени последнего рейса
func SubtractSectionTime(sectionSeconds int, lastTime string) (string, error) {
	lastSeconds, err := ParseClock(lastTime)
	if err != nil {
		return "", err
	}
	return FormatClock(lastSeconds - sectionSeconds), nil
}

// NormalizePackedLastTime переводит упакованное "HHMMSS" в "HH:MM:SS",
// сдвигая рейсы после полуночи на 24 часа вперёд.
func NormalizePackedLastTime(raw string) (string, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return "", apperrors.Wrap(apperrors.ErrServerData, "packed last time %q", raw)
	}

	if value < midnightThreshold {
		value += dayBoundaryAddition
	}

	packed := fmt.Sprintf("%0*d", packedTimeDigits, value)
	if len(packed) != packedTimeDigits {
		return "", apperrors.Wrap(apperrors.ErrServerData, "packed last time %q", raw)
	}
	return packed[0:2] + ":" + packed[2:4] + ":" + packed[4:6], nil
}

// WithSeconds дополняет "HH:MM" секундами
func WithSeconds(hhmm string) string {
	return strings.TrimSpace(hhmm) + ":00"
}
