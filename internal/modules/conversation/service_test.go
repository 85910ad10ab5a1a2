package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taxiwatch/internal/modules/watch"
	"taxiwatch/internal/types"
)

type stubGeocoder struct {
	places  map[string]types.Point
	reverse map[types.Point]string
	err     error
	calls   int
}

func (g *stubGeocoder) Resolve(_ context.Context, address string) (types.Point, error) {
	g.calls++
	if g.err != nil {
		return types.Point{}, g.err
	}
	p, ok := g.places[address]
	if !ok {
		return types.Point{}, types.ErrNotFound
	}
	return p, nil
}

func (g *stubGeocoder) ReverseResolve(_ context.Context, p types.Point) (string, error) {
	if a, ok := g.reverse[p]; ok {
		return a, nil
	}
	return "", errors.New("lookup failed")
}

type stubWatcher struct {
	started   map[types.ConversationID]watch.Route
	cancelled []types.ConversationID
	err       error
}

func newStubWatcher() *stubWatcher {
	return &stubWatcher{started: make(map[types.ConversationID]watch.Route)}
}

func (w *stubWatcher) Start(_ context.Context, conv types.ConversationID, r watch.Route) error {
	if w.err != nil {
		return w.err
	}
	if r.Origin.IsZero() || r.Destination.IsZero() {
		return types.ErrConfig
	}
	w.started[conv] = r
	return nil
}

func (w *stubWatcher) Cancel(conv types.ConversationID) bool {
	_, ok := w.started[conv]
	delete(w.started, conv)
	w.cancelled = append(w.cancelled, conv)
	return ok
}

var (
	tverskaya    = types.Point{Lon: 37.611347, Lat: 55.757816}
	sheremetyevo = types.Point{Lon: 37.414589, Lat: 55.972642}
)

func newTestService() (*Service, *stubGeocoder, *stubWatcher) {
	g := &stubGeocoder{
		places: map[string]types.Point{
			"Тверская 1":  tverskaya,
			"Шереметьево": sheremetyevo,
		},
		reverse: map[types.Point]string{tverskaya: "Москва, Тверская улица, 1"},
	}
	w := newStubWatcher()
	return NewService(g, w), g, w
}

func send(t *testing.T, s *Service, in Input) Reply {
	t.Helper()
	return s.Handle(context.Background(), 1, in)
}

func assertState(t *testing.T, s *Service, want State) {
	t.Helper()
	if got := s.State(1); got != want {
		t.Fatalf("state = %s, want %s", got, want)
	}
}

func TestHandle_HappyPath(t *testing.T) {
	s, _, w := newTestService()

	r := send(t, s, TextInput("/start"))
	assertState(t, s, StateMenu)
	if r.Text != welcomeMessage || r.Keyboard[0][0].Text != btnChooseRoute {
		t.Fatalf("unexpected welcome reply %+v", r)
	}

	r = send(t, s, TextInput(btnChooseRoute))
	assertState(t, s, StateOrigin)
	if r.Text != askOriginMessage {
		t.Fatalf("unexpected prompt %q", r.Text)
	}

	r = send(t, s, TextInput("Тверская 1"))
	assertState(t, s, StateDestination)
	if !strings.Contains(r.Text, "Тверская 1") || !strings.Contains(r.Text, tverskaya.String()) {
		t.Fatalf("origin confirmation missing details: %q", r.Text)
	}

	r = send(t, s, TextInput("Шереметьево"))
	assertState(t, s, StateSearch)
	if r.Keyboard[0][0].Text != btnSearch {
		t.Fatalf("expected search keyboard, got %+v", r.Keyboard)
	}

	send(t, s, TextInput(btnSearch))
	assertState(t, s, StateSearch)
	got, ok := w.started[1]
	if !ok {
		t.Fatal("expected a watch to be started")
	}
	want := watch.Route{OriginName: "Тверская 1", Origin: tverskaya, DestinationName: "Шереметьево", Destination: sheremetyevo}
	if got != want {
		t.Fatalf("started route = %+v, want %+v", got, want)
	}
}

func TestHandle_UnknownAddressRepromptsWithoutSession(t *testing.T) {
	s, _, w := newTestService()
	send(t, s, TextInput("/start"))
	send(t, s, TextInput(btnChooseRoute))

	r := send(t, s, TextInput("улица Несуществующая 999"))
	assertState(t, s, StateOrigin)
	if !strings.HasPrefix(r.Text, notFoundMessage) {
		t.Fatalf("expected not-found prompt, got %q", r.Text)
	}
	if len(w.started) != 0 {
		t.Fatal("no session may be created for an unknown address")
	}
}

func TestHandle_GeocoderTransportErrorAsksToRetry(t *testing.T) {
	s, g, _ := newTestService()
	send(t, s, TextInput("/start"))
	send(t, s, TextInput(btnChooseRoute))

	g.err = types.NewTransportError("geocode", errors.New("timeout"))
	r := send(t, s, TextInput("Тверская 1"))
	assertState(t, s, StateOrigin)
	if r.Text != lookupFailedMessage {
		t.Fatalf("expected retry prompt, got %q", r.Text)
	}

	g.err = nil
	send(t, s, TextInput("Тверская 1"))
	assertState(t, s, StateDestination)
}

func TestHandle_LocationInput(t *testing.T) {
	s, g, w := newTestService()
	send(t, s, TextInput("/start"))
	send(t, s, TextInput(btnChooseRoute))

	r := send(t, s, LocationInput(tverskaya))
	assertState(t, s, StateDestination)
	if !strings.Contains(r.Text, "Москва, Тверская улица, 1") {
		t.Fatalf("expected reverse geocoded label, got %q", r.Text)
	}

	// Reverse lookup fails: the raw coordinates become the label.
	unknown := types.Point{Lon: 30.3141, Lat: 59.9386}
	send(t, s, LocationInput(unknown))
	send(t, s, TextInput(btnSearch))
	if got := w.started[1].DestinationName; got != unknown.String() {
		t.Fatalf("destination label = %q, want %q", got, unknown.String())
	}
	if g.calls != 0 {
		t.Fatalf("forward geocoding should not run for locations, got %d calls", g.calls)
	}
}

func TestHandle_CancelButtonReturnsToMenuAndStopsWatch(t *testing.T) {
	s, _, w := newTestService()
	for _, in := range []string{"/start", btnChooseRoute, "Тверская 1", "Шереметьево", btnSearch} {
		send(t, s, TextInput(in))
	}
	if _, ok := w.started[1]; !ok {
		t.Fatal("watch should be running")
	}

	r := send(t, s, TextInput(btnCancel))
	assertState(t, s, StateMenu)
	if r.Text != welcomeMessage {
		t.Fatalf("expected welcome, got %q", r.Text)
	}
	if _, ok := w.started[1]; ok {
		t.Fatal("watch should have been cancelled")
	}
}

func TestHandle_CancelCommandEndsConversation(t *testing.T) {
	s, _, w := newTestService()
	send(t, s, TextInput("/start"))
	send(t, s, TextInput(btnChooseRoute))

	// Commands must not be geocoded as addresses.
	r := send(t, s, TextInput("/cancel"))
	assertState(t, s, StateIdle)
	if !r.RemoveKeyboard || r.Text != goodbyeMessage {
		t.Fatalf("unexpected goodbye reply %+v", r)
	}
	if len(w.cancelled) == 0 {
		t.Fatal("cancel should stop any running watch")
	}
}

func TestHandle_RestartWhileSearching(t *testing.T) {
	s, _, w := newTestService()
	for _, in := range []string{"/start", btnChooseRoute, "Тверская 1", "Шереметьево", btnSearch} {
		send(t, s, TextInput(in))
	}
	send(t, s, TextInput("/start@taxiwatch_bot"))
	assertState(t, s, StateMenu)
	if len(w.started) != 0 {
		t.Fatal("restart must cancel the running watch")
	}
}

func TestHandle_SearchWithIncompleteRoute(t *testing.T) {
	s, _, w := newTestService()
	w.err = types.ErrConfig
	for _, in := range []string{"/start", btnChooseRoute, "Тверская 1", "Шереметьево"} {
		send(t, s, TextInput(in))
	}
	r := send(t, s, TextInput(btnSearch))
	assertState(t, s, StateOrigin)
	if r.Text != routeIncompleteMessage {
		t.Fatalf("unexpected reply %q", r.Text)
	}
}

func TestHandle_UnmatchedInputKeepsState(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		input Input
		state State
		want  string
	}{
		{"idle text", nil, TextInput("hello"), StateIdle, idleHint},
		{"menu text", []string{"/start"}, TextInput("hello"), StateMenu, menuHint},
		{"origin unknown command", []string{"/start", btnChooseRoute}, TextInput("/help"), StateOrigin, placeInputHint},
		{"search text", []string{"/start", btnChooseRoute, "Тверская 1", "Шереметьево"}, TextInput("hello"), StateSearch, searchHint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestService()
			for _, in := range tt.setup {
				send(t, s, TextInput(in))
			}
			r := send(t, s, tt.input)
			assertState(t, s, tt.state)
			if r.Text != tt.want {
				t.Fatalf("reply = %q, want %q", r.Text, tt.want)
			}
		})
	}
}

func TestDispatch_Table(t *testing.T) {
	cases := []struct {
		state State
		in    Input
		match bool
	}{
		{StateIdle, TextInput("/start"), true},
		{StateIdle, TextInput(btnChooseRoute), false},
		{StateMenu, TextInput(btnChooseRoute), true},
		{StateOrigin, LocationInput(tverskaya), true},
		{StateSearch, LocationInput(tverskaya), false},
		{StateSearch, TextInput("cancel"), true},
		{StateDestination, Input{Kind: InputCommand}, false},
	}
	for _, tc := range cases {
		if _, ok := dispatch(tc.state, tc.in); ok != tc.match {
			t.Errorf("dispatch(%s, %+v) matched = %v, want %v", tc.state, tc.in, ok, tc.match)
		}
	}
}

func TestHandle_DestinationEqualToOriginIsRejected(t *testing.T) {
	s, _, w := newTestService()
	send(t, s, TextInput("/start"))
	send(t, s, TextInput(btnChooseRoute))
	send(t, s, TextInput("Тверская 1"))

	r := send(t, s, LocationInput(types.Point{Lon: tverskaya.Lon + 0.0001, Lat: tverskaya.Lat}))
	assertState(t, s, StateDestination)
	if r.Text != sameRouteMessage {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	send(t, s, TextInput(btnSearch))
	if len(w.started) != 0 {
		t.Fatal("no watch may start without a distinct destination")
	}
}
