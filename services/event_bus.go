package services

// Broadcaster delivers a payload to one user's open websocket connections.
type Broadcaster interface {
	Broadcast(userID uint, payload any)
}

// Pusher delivers a push notification to one user's registered devices.
type Pusher interface {
	PushToUser(userID uint, title, body string, data map[string]string)
}

type eventDeps struct {
	rt Broadcaster
	ps Pusher
}

var _events eventDeps

func InitEventDeps(rt Broadcaster, ps Pusher) {
	_events = eventDeps{rt: rt, ps: ps}
}

// EmitDuoEvent broadcasts a websocket event to one user's open connections.
// Safe to call anywhere; a nil hub makes it a no-op.
func EmitDuoEvent(userID uint, kind string, payload any) {
	if _events.rt == nil {
		return
	}
	_events.rt.Broadcast(userID, map[string]any{
		"kind": kind,
		"data": payload,
	})
}

// PushToUser sends a best-effort push notification. Delivery failure never
// affects the state change that triggered it.
func PushToUser(userID uint, title, body string, data map[string]string) {
	if _events.ps == nil {
		return
	}
	_events.ps.PushToUser(userID, title, body, data)
}
