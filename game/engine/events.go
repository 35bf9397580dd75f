package engine

import (
	"fmt"

	"github.com/wricardo/spriteboard/game/geometry"
)

// NotificationKind discriminates the Notification union.
type NotificationKind uint8

const (
	NotifyTick NotificationKind = iota + 1
	NotifyResize
	NotifyInput
	NotifyCollision
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyTick:
		return "tick"
	case NotifyResize:
		return "resize"
	case NotifyInput:
		return "input"
	case NotifyCollision:
		return "collision"
	}
	return fmt.Sprintf("NotificationKind(%d)", uint8(k))
}

// Notification is a message delivered to sprites. Only the field matching
// Kind is meaningful: Seq for ticks, Size for resizes, Action for input and
// Collision for collisions.
type Notification struct {
	Kind      NotificationKind
	Seq       uint64
	Size      geometry.Size
	Action    Action
	Collision Collision
}

func TickNotification(seq uint64) Notification {
	return Notification{Kind: NotifyTick, Seq: seq}
}

func ResizeNotification(size geometry.Size) Notification {
	return Notification{Kind: NotifyResize, Size: size}
}

func InputNotification(action Action) Notification {
	return Notification{Kind: NotifyInput, Action: action}
}

func CollisionNotification(c Collision) Notification {
	return Notification{Kind: NotifyCollision, Collision: c}
}

// Propagate returns one copy of n for every child, index-aligned with
// children. Delivery does not depend on the children's geometry.
func Propagate(n Notification, children []geometry.Area) []Notification {
	out := make([]Notification, len(children))
	for i := range children {
		out[i] = n
	}
	return out
}
