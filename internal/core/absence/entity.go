package absence

import "time"

// EventType は不在イベントの種別を表します。
type EventType string

const (
	EventTypeRemoteWork EventType = "RemoteWork"
	EventTypePaidLeave  EventType = "PaidLeave"
)

// Valid は定義済みの種別かどうかを返します。
func (t EventType) Valid() bool {
	switch t {
	case EventTypeRemoteWork, EventTypePaidLeave:
		return true
	default:
		return false
	}
}

// Status は不在イベントの承認状態を表します。
// Pending からは Accepted または Declined のみに遷移し、両者は終端状態です。
type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusDeclined Status = "Declined"
)

// Terminal はこれ以上の状態遷移が許されない状態かどうかを返します。
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Event は不在イベントエンティティです。Date は1暦日を表し、
// 同一人物は同じ日に複数のイベントを持てません。
type Event struct {
	ID          string
	PersonID    string
	Date        time.Time
	Type        EventType
	Status      Status
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
