package sdlwindow

import "github.com/veandco/go-sdl2/sdl"

type Event int

const (
	EventNone Event = iota
	EventQuit
	EventResized
	EventMinimized
	EventRestored
)

func (e Event) String() string {
	switch e {
	case EventQuit:
		return "quit"
	case EventResized:
		return "resized"
	case EventMinimized:
		return "minimized"
	case EventRestored:
		return "restored"
	}
	return "none"
}

func classify(event sdl.Event) Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return EventQuit
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return EventResized
		case sdl.WINDOWEVENT_MINIMIZED:
			return EventMinimized
		case sdl.WINDOWEVENT_RESTORED:
			return EventRestored
		}
	}
	return EventNone
}

// Poll waits up to timeoutMS for the first event, drains the rest of the SDL
// queue and returns the events the bring-up loop cares about, in arrival
// order.
func (w *Window) Poll(timeoutMS int) []Event {
	var events []Event
	for event := sdl.WaitEventTimeout(timeoutMS); event != nil; event = sdl.PollEvent() {
		if kind := classify(event); kind != EventNone {
			events = append(events, kind)
		}
	}
	return events
}
