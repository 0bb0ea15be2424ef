package lessors

import (
	"time"

	"courtly/internal/domain/shared/status"
)

type LessorRegistered struct {
	LessorID        LessorID  `json:"lessor_id"`
	Email           string    `json:"email"`
	SportCenterName string    `json:"sportcenter_name"`
	At              time.Time `json:"occurred_at"`
}

func (e LessorRegistered) EventName() string     { return "lessor.registered" }
func (e LessorRegistered) AggregateID() string   { return string(e.LessorID) }
func (e LessorRegistered) OccurredAt() time.Time { return e.At }

type LessorStatusChanged struct {
	LessorID LessorID      `json:"lessor_id"`
	Email    string        `json:"email"`
	Status   status.Status `json:"status"`
	At       time.Time     `json:"occurred_at"`
}

func (e LessorStatusChanged) EventName() string     { return "lessor.status_changed" }
func (e LessorStatusChanged) AggregateID() string   { return string(e.LessorID) }
func (e LessorStatusChanged) OccurredAt() time.Time { return e.At }

type LessorRemoved struct {
	LessorID LessorID  `json:"lessor_id"`
	Email    string    `json:"email"`
	At       time.Time `json:"occurred_at"`
}

func (e LessorRemoved) EventName() string     { return "lessor.removed" }
func (e LessorRemoved) AggregateID() string   { return string(e.LessorID) }
func (e LessorRemoved) OccurredAt() time.Time { return e.At }
