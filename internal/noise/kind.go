package noise

type Kind string

const (
	White  Kind = "white"
	Pink   Kind = "pink"
	Brown  Kind = "brown"
	Blue   Kind = "blue"
	Violet Kind = "violet"
)

// Kinds is the fixed track order used by next/previous cycling.
var Kinds = []Kind{White, Pink, Brown, Blue, Violet}

// ParseKind maps a control payload to a Kind. Unknown strings fall back
// to white; callers that care should log the fallback.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case White, Pink, Brown, Blue, Violet:
		return Kind(s)
	default:
		return White
	}
}

func (k Kind) index() int {
	for i, o := range Kinds {
		if o == k {
			return i
		}
	}
	return 0
}

// Next returns the following Kind in track order, wrapping around.
func (k Kind) Next() Kind {
	return Kinds[(k.index()+1)%len(Kinds)]
}

// Prev returns the preceding Kind in track order, wrapping around.
func (k Kind) Prev() Kind {
	return Kinds[(k.index()+len(Kinds)-1)%len(Kinds)]
}

// Title returns a display name for media metadata.
func (k Kind) Title() string {
	switch k {
	case Pink:
		return "Pink Noise"
	case Brown:
		return "Brown Noise"
	case Blue:
		return "Blue Noise"
	case Violet:
		return "Violet Noise"
	default:
		return "White Noise"
	}
}
