package ws

import (
	"time"
)

type EventType string

const (
	EventVehicleEntered EventType = "vehicle.entered"
	EventVehicleExited  EventType = "vehicle.exited"
	EventSpaceOccupied  EventType = "space.occupied"
	EventSpaceReleased  EventType = "space.released"
	EventPaymentSettled EventType = "payment.settled"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
