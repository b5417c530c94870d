package entity

import "time"

const (
	HeartbeatEntity   = "Gather"
	HeartbeatType     = "app"
	HeartbeatProject  = "Gather Client"
	HeartbeatPlugin   = "gather-heartbeat/1.0.0"
	HeartbeatCategory = "meeting"
	HeartbeatBranch   = "main"
)

// Heartbeat is a single activity event in the time-tracking API schema.
// Time is in epoch seconds; batched heartbeats always land on a minute boundary.
type Heartbeat struct {
	Time     float64 `json:"time"`
	Entity   string  `json:"entity"`
	Type     string  `json:"type"`
	Project  string  `json:"project"`
	Plugin   string  `json:"plugin"`
	Category string  `json:"category"`
	Branch   string  `json:"branch"`
}

// HeartbeatMeta holds the fixed fields stamped onto every heartbeat.
type HeartbeatMeta struct {
	Entity   string
	Type     string
	Project  string
	Plugin   string
	Category string
	Branch   string
}

func DefaultHeartbeatMeta() HeartbeatMeta {
	return HeartbeatMeta{
		Entity:   HeartbeatEntity,
		Type:     HeartbeatType,
		Project:  HeartbeatProject,
		Plugin:   HeartbeatPlugin,
		Category: HeartbeatCategory,
		Branch:   HeartbeatBranch,
	}
}

func (m HeartbeatMeta) At(t float64) Heartbeat {
	return Heartbeat{
		Time:     t,
		Entity:   m.Entity,
		Type:     m.Type,
		Project:  m.Project,
		Plugin:   m.Plugin,
		Category: m.Category,
		Branch:   m.Branch,
	}
}

// MinuteOf truncates t to the start of its minute, in epoch seconds.
func MinuteOf(t time.Time) int64 {
	return t.Unix() / 60 * 60
}

// FractionalSeconds returns t as epoch seconds with sub-second precision.
func FractionalSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
