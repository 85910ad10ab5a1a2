// README: Conversation states, user inputs and replies for the route dialog.
package conversation

import (
	"strings"
	"sync"

	"taxiwatch/internal/modules/watch"
	"taxiwatch/internal/types"
)

type State string

const (
	StateIdle        State = "idle"
	StateMenu        State = "menu"
	StateOrigin      State = "collecting_origin"
	StateDestination State = "collecting_destination"
	StateSearch      State = "searching"
)

type InputKind int

const (
	InputText InputKind = iota
	InputCommand
	InputLocation
)

// Input is one user message reduced to what the dialog cares about.
type Input struct {
	Kind     InputKind
	Text     string
	Location types.Point
}

// TextInput classifies messages starting with "/" as commands.
func TextInput(text string) Input {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return Input{Kind: InputCommand, Text: text}
	}
	return Input{Kind: InputText, Text: text}
}

func LocationInput(p types.Point) Input {
	return Input{Kind: InputLocation, Location: p}
}

// Button is a reply keyboard button.
type Button struct {
	Text            string
	RequestLocation bool
}

// Reply is what the transport should send back.
type Reply struct {
	Text           string
	Keyboard       [][]Button
	RemoveKeyboard bool
}

// Conversation is the dialog state for one chat.
type Conversation struct {
	mu sync.Mutex

	State           State
	OriginName      string
	Origin          types.Point
	DestinationName string
	Destination     types.Point
}

func (c *Conversation) reset() {
	c.OriginName, c.DestinationName = "", ""
	c.Origin, c.Destination = types.Point{}, types.Point{}
}

func (c *Conversation) route() watch.Route {
	return watch.Route{
		OriginName:      c.OriginName,
		Origin:          c.Origin,
		DestinationName: c.DestinationName,
		Destination:     c.Destination,
	}
}
