// README: Conversation flow controller; an explicit (state, input) -> transition table.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"taxiwatch/internal/maps"
	"taxiwatch/internal/modules/watch"
	"taxiwatch/internal/types"
)

// Watcher is the price watch scheduler as seen by the dialog.
type Watcher interface {
	Start(ctx context.Context, conv types.ConversationID, route watch.Route) error
	Cancel(conv types.ConversationID) bool
}

// minTripKm rejects destinations that are effectively the origin.
const minTripKm = 0.1

type matcher func(in Input) bool

type transition func(ctx context.Context, s *Service, conv types.ConversationID, c *Conversation, in Input) (State, Reply)

type route struct {
	match matcher
	run   transition
}

// entryRoutes apply in every state, fallbackRoutes after the state's own routes.
var (
	entryRoutes = []route{
		{command("/start"), startTransition},
	}
	stateRoutes = map[State][]route{
		StateMenu: {
			{textPrefix(btnChooseRoute), askOriginTransition},
		},
		StateOrigin: {
			{textPrefix(btnCancel), startTransition},
			{isText, originTransition},
			{isLocation, originTransition},
		},
		StateDestination: {
			{textPrefix(btnCancel), startTransition},
			{isText, destinationTransition},
			{isLocation, destinationTransition},
		},
		StateSearch: {
			{textPrefix(btnCancel), startTransition},
			{textPrefix(btnSearch), searchTransition},
		},
	}
	fallbackRoutes = []route{
		{command("/cancel"), cancelTransition},
		{textPrefix("cancel"), cancelTransition},
	}
)

type Service struct {
	geocoder maps.Geocoder
	watcher  Watcher

	mu    sync.Mutex
	convs map[types.ConversationID]*Conversation
}

func NewService(geocoder maps.Geocoder, watcher Watcher) *Service {
	return &Service{
		geocoder: geocoder,
		watcher:  watcher,
		convs:    make(map[types.ConversationID]*Conversation),
	}
}

// Handle advances the dialog of conv by one input. ctx bounds geocoding
// calls and is the parent of any price watch started by this input.
func (s *Service) Handle(ctx context.Context, conv types.ConversationID, in Input) Reply {
	c := s.conversation(conv)
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := dispatch(c.State, in)
	if !ok {
		return hintFor(c.State)
	}
	from := c.State
	next, reply := r.run(ctx, s, conv, c, in)
	c.State = next
	if from != next {
		slog.Debug("conversation transition", "conversation", conv, "from", from, "to", next)
	}
	return reply
}

// State returns the current dialog state of conv.
func (s *Service) State(conv types.ConversationID) State {
	c := s.conversation(conv)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.State
}

func (s *Service) conversation(conv types.ConversationID) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conv]
	if !ok {
		c = &Conversation{State: StateIdle}
		s.convs[conv] = c
	}
	return c
}

func dispatch(state State, in Input) (route, bool) {
	for _, group := range [][]route{entryRoutes, stateRoutes[state], fallbackRoutes} {
		for _, r := range group {
			if r.match(in) {
				return r, true
			}
		}
	}
	return route{}, false
}

func hintFor(state State) Reply {
	switch state {
	case StateMenu:
		return Reply{Text: menuHint, Keyboard: menuKeyboard}
	case StateOrigin, StateDestination:
		return Reply{Text: placeInputHint, Keyboard: placeKeyboard}
	case StateSearch:
		return Reply{Text: searchHint, Keyboard: searchKeyboard}
	default:
		return Reply{Text: idleHint}
	}
}

func startTransition(_ context.Context, s *Service, conv types.ConversationID, c *Conversation, _ Input) (State, Reply) {
	s.watcher.Cancel(conv)
	c.reset()
	return StateMenu, Reply{Text: welcomeMessage, Keyboard: menuKeyboard}
}

func askOriginTransition(_ context.Context, _ *Service, _ types.ConversationID, _ *Conversation, _ Input) (State, Reply) {
	return StateOrigin, Reply{Text: askOriginMessage, Keyboard: placeKeyboard}
}

func originTransition(ctx context.Context, s *Service, conv types.ConversationID, c *Conversation, in Input) (State, Reply) {
	name, p, retry, ok := s.resolvePlace(ctx, conv, in, askOriginMessage)
	if !ok {
		return StateOrigin, retry
	}
	c.OriginName, c.Origin = name, p
	text := fmt.Sprintf(originSetMessage, name, p.String()) + "\n" + askDestinationMessage
	return StateDestination, Reply{Text: text, Keyboard: placeKeyboard}
}

func destinationTransition(ctx context.Context, s *Service, conv types.ConversationID, c *Conversation, in Input) (State, Reply) {
	name, p, retry, ok := s.resolvePlace(ctx, conv, in, askDestinationMessage)
	if !ok {
		return StateDestination, retry
	}
	if c.Origin.DistanceKm(p) < minTripKm {
		return StateDestination, Reply{Text: sameRouteMessage, Keyboard: placeKeyboard}
	}
	c.DestinationName, c.Destination = name, p
	text := fmt.Sprintf(routeSetMessage, c.OriginName, c.Origin.String(), name, p.String())
	return StateSearch, Reply{Text: text, Keyboard: searchKeyboard}
}

func searchTransition(ctx context.Context, s *Service, conv types.ConversationID, c *Conversation, _ Input) (State, Reply) {
	err := s.watcher.Start(ctx, conv, c.route())
	switch {
	case errors.Is(err, types.ErrConfig):
		c.reset()
		return StateOrigin, Reply{Text: routeIncompleteMessage, Keyboard: placeKeyboard}
	case err != nil:
		slog.Error("starting price watch failed", "conversation", conv, "err", err)
		return StateSearch, Reply{Text: searchFailedMessage, Keyboard: searchKeyboard}
	}
	text := fmt.Sprintf(searchStartedMessage, c.OriginName, c.DestinationName)
	return StateSearch, Reply{Text: text, Keyboard: cancelKeyboard}
}

func cancelTransition(_ context.Context, s *Service, conv types.ConversationID, c *Conversation, _ Input) (State, Reply) {
	s.watcher.Cancel(conv)
	c.reset()
	return StateIdle, Reply{Text: goodbyeMessage, RemoveKeyboard: true}
}

// resolvePlace turns a text or location input into a labelled point. When ok
// is false the returned reply asks the user to try again.
func (s *Service) resolvePlace(ctx context.Context, conv types.ConversationID, in Input, prompt string) (name string, p types.Point, retry Reply, ok bool) {
	if in.Kind == InputLocation {
		return maps.AddressOf(ctx, s.geocoder, in.Location), in.Location, Reply{}, true
	}

	p, err := s.geocoder.Resolve(ctx, in.Text)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return "", types.Point{}, Reply{Text: notFoundMessage + "\n" + prompt, Keyboard: placeKeyboard}, false
	case err != nil:
		slog.Warn("geocoding failed", "conversation", conv, "err", err)
		return "", types.Point{}, Reply{Text: lookupFailedMessage, Keyboard: placeKeyboard}, false
	}
	return in.Text, p, Reply{}, true
}

func command(name string) matcher {
	return func(in Input) bool {
		fields := strings.Fields(in.Text)
		if in.Kind != InputCommand || len(fields) == 0 {
			return false
		}
		cmd := fields[0]
		// Group chats address commands as /start@botname.
		cmd, _, _ = strings.Cut(cmd, "@")
		return cmd == name
	}
}

func textPrefix(prefix string) matcher {
	return func(in Input) bool {
		return in.Kind == InputText && strings.HasPrefix(in.Text, prefix)
	}
}

func isText(in Input) bool {
	return in.Kind == InputText && in.Text != ""
}

func isLocation(in Input) bool {
	return in.Kind == InputLocation
}
