package registry

// EventSignature describes a known Eligius runtime event: the number of
// positional arguments the runtime provides to a handler bound with
// `on event "<name>" ... action H(params)`.
type EventSignature struct {
	Name        string
	ProvidesArgs int
	Description string
}

var knownEvents = []EventSignature{
	{Name: "before-request-video-url", ProvidesArgs: 3, Description: "Fired before the video provider resolves its source URL."},
	{Name: "request-video-url-resolved", ProvidesArgs: 2, Description: "Fired once the video provider has resolved its source URL."},
	{Name: "timeline-play", ProvidesArgs: 1, Description: "Fired when a timeline starts playing."},
	{Name: "timeline-pause", ProvidesArgs: 1, Description: "Fired when a timeline is paused."},
	{Name: "timeline-stop", ProvidesArgs: 1, Description: "Fired when a timeline stops."},
	{Name: "timeline-seek", ProvidesArgs: 2, Description: "Fired when a timeline seeks to a new position."},
	{Name: "timeline-complete", ProvidesArgs: 1, Description: "Fired when a timeline reaches its end."},
	{Name: "controller-added", ProvidesArgs: 2, Description: "Fired after a controller instance is attached to an element."},
	{Name: "language-change", ProvidesArgs: 1, Description: "Fired when the active language changes."},
}

// EventTable is the event catalog. Unlike the operation Table, which is
// built on first use, the single instance is built at package
// initialization.
type EventTable struct {
	byName map[string]EventSignature
	all    []EventSignature
}

func (t *EventTable) Lookup(name string) (EventSignature, bool) {
	sig, ok := t.byName[name]
	return sig, ok
}

func (t *EventTable) All() []EventSignature { return t.all }

func (t *EventTable) Names() []string {
	names := make([]string, 0, len(t.all))
	for _, e := range t.all {
		names = append(names, e.Name)
	}
	return names
}

var eventInstance = buildEventTable()

func DefaultEvents() *EventTable { return eventInstance }

func buildEventTable() *EventTable {
	t := &EventTable{byName: make(map[string]EventSignature, len(knownEvents)), all: knownEvents}
	for _, e := range knownEvents {
		t.byName[e.Name] = e
	}
	return t
}
