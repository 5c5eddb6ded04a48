package sink

import (
	"encoding/json"
	"testing"
)

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testScene(t))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out struct {
		Width    float64 `json:"width"`
		Height   float64 `json:"height"`
		Title    string  `json:"title"`
		Elements []struct {
			Kind  string `json:"kind"`
			Class string `json:"class"`
			ID    string `json:"id"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out.Width <= 0 || out.Height <= 0 {
		t.Errorf("scene size %gx%g", out.Width, out.Height)
	}
	if out.Title != "row-a-01" {
		t.Errorf("title = %q", out.Title)
	}

	kinds := map[string]int{}
	var deviceID string
	for _, el := range out.Elements {
		kinds[el.Kind]++
		if el.Class == "device" {
			deviceID = el.ID
		}
	}
	if kinds["rect"] == 0 || kinds["text"] == 0 {
		t.Errorf("element kinds = %v", kinds)
	}
	if kinds["unknown"] != 0 {
		t.Errorf("unknown elements in output: %v", kinds)
	}
	if deviceID != "srv" {
		t.Errorf("device id = %q, want srv", deviceID)
	}
}
