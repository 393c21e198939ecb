// Package servitor manages digital servitors: named thought-forms with a
// purpose, a generated sigil, a charge level that decays over time, and
// tasks they can run. Each servitor is persisted as a JSON file under the
// state directory.
package servitor

import (
	"fmt"
	"math"
	"time"
)

// Status is a servitor's lifecycle state.
type Status string

const (
	StatusDormant   Status = "dormant"
	StatusActive    Status = "active"
	StatusDismissed Status = "dismissed"
)

// ParseStatus validates a status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDormant, StatusActive, StatusDismissed:
		return Status(s), nil
	}
	return "", fmt.Errorf("status %q: want dormant, active, or dismissed", s)
}

// Task is a unit of work a servitor can run.
type Task struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Type           string            `json:"task_type"`
	Parameters     map[string]string `json:"parameters,omitempty"`
	LastExecuted   *time.Time        `json:"last_executed,omitempty"`
	ExecutionCount int               `json:"execution_count"`
	SuccessCount   int               `json:"success_count"`
}

// ChargeEvent records one charging action in the history.
type ChargeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	NewLevel  float64   `json:"new_level"`
}

// Servitor is the persisted data model.
type Servitor struct {
	Name                string        `json:"name"`
	Purpose             string        `json:"purpose"`
	SigilPath           string        `json:"sigil_path,omitempty"`
	ChargeLevel         float64       `json:"charge_level"` // 0-100
	Status              Status        `json:"status"`
	CreationDate        time.Time     `json:"creation_date"`
	LastFed             *time.Time    `json:"last_fed,omitempty"`
	LastCharged         *time.Time    `json:"last_charged,omitempty"`
	ActivationThreshold float64       `json:"activation_threshold"`
	Tasks               []Task        `json:"tasks"`
	ChargingHistory     []ChargeEvent `json:"charging_history"`
	Notes               string        `json:"notes"`
}

// New creates a dormant servitor with the default activation threshold.
func New(name, purpose string) *Servitor {
	return &Servitor{
		Name:                name,
		Purpose:             purpose,
		Status:              StatusDormant,
		CreationDate:        time.Now(),
		ActivationThreshold: 50.0,
	}
}

// CanActivate reports whether the charge level clears the activation
// threshold. A dismissed servitor never activates.
func (s *Servitor) CanActivate() bool {
	return s.ChargeLevel >= s.ActivationThreshold && s.Status != StatusDismissed
}

// Activate flips the servitor active when it has enough charge.
func (s *Servitor) Activate() bool {
	if !s.CanActivate() {
		return false
	}
	s.Status = StatusActive
	return true
}

// Deactivate returns an undismissed servitor to dormancy.
func (s *Servitor) Deactivate() {
	if s.Status != StatusDismissed {
		s.Status = StatusDormant
	}
}

// AddCharge raises the charge level, capped at 100, and records the event.
func (s *Servitor) AddCharge(amount float64, method string) {
	s.ChargeLevel = math.Min(100, s.ChargeLevel+amount)
	now := time.Now()
	s.LastCharged = &now
	s.ChargingHistory = append(s.ChargingHistory, ChargeEvent{
		Timestamp: now,
		Amount:    amount,
		Method:    method,
		NewLevel:  s.ChargeLevel,
	})
}

// Feed recharges the servitor and stamps the feeding time.
func (s *Servitor) Feed(amount float64) {
	s.AddCharge(amount, "feeding")
	now := time.Now()
	s.LastFed = &now
}
