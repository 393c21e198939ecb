package servitor

import (
	"fmt"
	"time"
)

const (
	// DefaultDecayRate is charge points lost per day since the last charge.
	DefaultDecayRate = 1.0
	// FeedingReminderDays is how long a servitor goes unfed before a
	// feeding reminder fires.
	FeedingReminderDays = 7
)

// DecaySince returns the charge lost between the last charge and now at
// rate points per day, capped at the current level.
func DecaySince(sv *Servitor, rate float64, now time.Time) float64 {
	if sv.LastCharged == nil {
		return 0
	}
	days := now.Sub(*sv.LastCharged).Hours() / 24
	decay := days * rate
	if decay < 0 {
		return 0
	}
	if decay > sv.ChargeLevel {
		decay = sv.ChargeLevel
	}
	return decay
}

// ApplyDecay lowers the charge by the accrued decay, deactivating the
// servitor when it drops below its activation threshold. Reports whether
// anything changed.
func ApplyDecay(sv *Servitor, rate float64) bool {
	decay := DecaySince(sv, rate, time.Now())
	if decay <= 0 {
		return false
	}
	sv.ChargeLevel -= decay
	if sv.ChargeLevel < 0 {
		sv.ChargeLevel = 0
	}
	if sv.ChargeLevel < sv.ActivationThreshold {
		sv.Deactivate()
	}
	return true
}

// Health is a point-in-time wellness snapshot.
type Health struct {
	ChargeLevel      float64
	Status           Status
	DaysSinceFed     float64 // negative when never fed
	DaysSinceCharged float64 // negative when never charged
	NeedsFeeding     bool
	NeedsCharging    bool
	Healthy          bool
}

// CheckHealth evaluates a servitor's charge and feeding state.
func CheckHealth(sv *Servitor) Health {
	h := Health{
		ChargeLevel:      sv.ChargeLevel,
		Status:           sv.Status,
		DaysSinceFed:     -1,
		DaysSinceCharged: -1,
		Healthy:          true,
	}
	now := time.Now()
	if sv.LastFed != nil {
		h.DaysSinceFed = now.Sub(*sv.LastFed).Hours() / 24
		h.NeedsFeeding = h.DaysSinceFed >= FeedingReminderDays
	}
	if sv.LastCharged != nil {
		h.DaysSinceCharged = now.Sub(*sv.LastCharged).Hours() / 24
	}
	if sv.ChargeLevel < sv.ActivationThreshold {
		h.NeedsCharging = true
		h.Healthy = false
	}
	if sv.Status == StatusDismissed {
		h.Healthy = false
	}
	return h
}

// Reminder flags a servitor needing attention.
type Reminder struct {
	Servitor string
	Kind     string // "feeding" or "charging"
	Message  string
	Priority string // "medium" or "high"
}

// Reminders collects maintenance reminders across servitors. Dismissed
// servitors are skipped.
func Reminders(servitors []*Servitor) []Reminder {
	var reminders []Reminder
	for _, sv := range servitors {
		if sv.Status == StatusDismissed {
			continue
		}
		h := CheckHealth(sv)
		if h.NeedsFeeding {
			reminders = append(reminders, Reminder{
				Servitor: sv.Name,
				Kind:     "feeding",
				Message:  fmt.Sprintf("%s needs feeding (last fed %.1f days ago)", sv.Name, h.DaysSinceFed),
				Priority: "medium",
			})
		}
		if h.NeedsCharging {
			reminders = append(reminders, Reminder{
				Servitor: sv.Name,
				Kind:     "charging",
				Message:  fmt.Sprintf("%s needs charging (charge level: %.1f%%)", sv.Name, sv.ChargeLevel),
				Priority: "high",
			})
		}
	}
	return reminders
}
