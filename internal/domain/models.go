package domain

// Perspective classifies the interpretive angle a search strategy takes on
// the user's text.
type Perspective string

const (
	PerspectiveEmotional Perspective = "emotional"
	PerspectiveLiteral   Perspective = "literal"
	PerspectiveSarcastic Perspective = "sarcastic"
)

// Perspectives lists every perspective in the order strategies are derived.
var Perspectives = []Perspective{
	PerspectiveEmotional,
	PerspectiveLiteral,
	PerspectiveSarcastic,
}

// Valid reports whether p is one of the known perspectives.
func (p Perspective) Valid() bool {
	switch p {
	case PerspectiveEmotional, PerspectiveLiteral, PerspectiveSarcastic:
		return true
	}
	return false
}

// Guidance returns the ranking guidance text for this perspective.
func (p Perspective) Guidance() string {
	switch p {
	case PerspectiveEmotional:
		return "Pick the GIF that best captures the raw feeling behind the situation."
	case PerspectiveLiteral:
		return "Pick the GIF that most directly depicts what is actually happening."
	case PerspectiveSarcastic:
		return "Pick the GIF with the most ironic or deadpan take on the situation."
	default:
		return "Pick the GIF that best matches the situation."
	}
}

// MaxKeywords caps how many keywords a single strategy may carry.
const MaxKeywords = 3

// Strategy is one keyword search plan derived from the user's text.
// Keywords is always non-empty and holds at most MaxKeywords entries.
// Topic is optional; empty means absent. Perspective is set only in the
// multi-strategy flow.
type Strategy struct {
	Keywords    []string    `json:"keywords"`
	Topic       string      `json:"topic,omitempty"`
	Perspective Perspective `json:"perspective,omitempty"`
	Reasoning   string      `json:"reasoning"`
}

// Candidate is one GIF record returned by the search provider, verbatim.
type Candidate struct {
	Title    string `json:"title"`
	AltText  string `json:"alt_text,omitempty"`
	MediaURL string `json:"media_url"`
}

// Selection is the ranker's choice among a candidate list.
type Selection struct {
	SelectedIndex int    `json:"selected_index"`
	Reasoning     string `json:"reasoning"`
}

// Choose returns the candidate picked by the selection. An out-of-range
// index falls back to the first candidate; this is documented behavior,
// not an error. Candidates must be non-empty.
func (sel Selection) Choose(candidates []Candidate) Candidate {
	if sel.SelectedIndex < 0 || sel.SelectedIndex >= len(candidates) {
		return candidates[0]
	}
	return candidates[sel.SelectedIndex]
}

// GifResult is the terminal per-strategy outcome returned to the client.
type GifResult struct {
	URL         string      `json:"url"`
	Keywords    []string    `json:"keywords"`
	Topic       string      `json:"topic,omitempty"`
	Reasoning   string      `json:"reasoning"`
	Title       string      `json:"title"`
	Perspective Perspective `json:"perspective,omitempty"`
}
