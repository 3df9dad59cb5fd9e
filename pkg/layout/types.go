package layout

// Screen names a UI view in a generated layout.
type Screen string

// Built-in screen identifiers used by the default rule table.
const (
	ScreenHome    Screen = "Home"
	ScreenBrowse  Screen = "Browse"
	ScreenDetails Screen = "Details"
	ScreenEdit    Screen = "Edit"
	ScreenAdmin   Screen = "Admin"
	ScreenMain    Screen = "Main"
)

// Request carries the planner input. Features are matched case-insensitively;
// their order has no effect on the output.
type Request struct {
	Purpose  string   `json:"app_purpose" yaml:"app_purpose"`
	Features []string `json:"features" yaml:"features"`
}

// ScreenComponent pairs a screen with the component labels it contains.
type ScreenComponent struct {
	Screen     Screen   `json:"screen" yaml:"screen"`
	Components []string `json:"components" yaml:"components"`
}

// Clone returns a copy that shares no backing storage with the receiver.
func (s ScreenComponent) Clone() ScreenComponent {
	out := s
	if s.Components != nil {
		out.Components = append([]string(nil), s.Components...)
	}
	return out
}

// Result is the ordered list of screens produced by a planner. A result
// returned by Plan is never empty.
type Result []ScreenComponent

// Screens lists the screen names in output order.
func (r Result) Screens() []Screen {
	out := make([]Screen, len(r))
	for idx, entry := range r {
		out[idx] = entry.Screen
	}
	return out
}

// Find returns the first entry for the named screen.
func (r Result) Find(screen Screen) (ScreenComponent, bool) {
	for _, entry := range r {
		if entry.Screen == screen {
			return entry, true
		}
	}
	return ScreenComponent{}, false
}
