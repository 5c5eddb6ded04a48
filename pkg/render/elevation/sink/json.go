package sink

import (
	"bytes"
	"encoding/json"

	"github.com/rackworks/rackviz/pkg/render/elevation"
)

// RenderJSON exports the scene as a pretty-printed JSON document, the
// interchange format for external tooling and for caching composed
// scenes. The output round-trips through [ParseScene]. It does not
// modify s and is safe to call concurrently.
func RenderJSON(s *elevation.Scene) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseScene decodes a scene previously exported with [RenderJSON].
func ParseScene(data []byte) (*elevation.Scene, error) {
	var s elevation.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
