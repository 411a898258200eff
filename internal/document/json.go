package document

import "encoding/json"

// fragmentJSON is the wire form used by element dumps.
type fragmentJSON struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Display bool   `json:"display,omitempty"`
}

type elementJSON struct {
	Kind     string         `json:"kind"`
	Level    int            `json:"level,omitempty"`
	Depth    int            `json:"depth,omitempty"`
	Language string         `json:"language,omitempty"`
	Text     string         `json:"text,omitempty"`
	Content  []fragmentJSON `json:"content,omitempty"`
}

// MarshalElements encodes elements as an indented JSON array.
func MarshalElements(elems []Element) ([]byte, error) {
	out := make([]elementJSON, 0, len(elems))
	for _, e := range elems {
		ej := elementJSON{Kind: e.Kind()}
		switch v := e.(type) {
		case Heading:
			ej.Level = v.Level
		case ListItem:
			ej.Depth = v.Depth
		case Code:
			ej.Text = v.Text
			ej.Language = v.Language
		}
		for _, f := range Content(e) {
			ej.Content = append(ej.Content, fragmentJSON{Kind: f.Kind.String(), Text: f.Text, Display: f.Display})
		}
		out = append(out, ej)
	}
	return json.MarshalIndent(out, "", "  ")
}
