package elevation

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/rackworks/rackviz/pkg/render/elevation/layout"
)

func TestSceneJSONRoundTrip(t *testing.T) {
	orig := &Scene{Width: 200, Height: 100, Background: "#ffffff", Title: "row-a-01"}
	orig.Add(
		Rect{X: 1, Y: 2, W: 3, H: 4, Rx: 1, Fill: "#111111", Stroke: "#222222", StrokeWidth: 1, Class: "device", ID: "srv"},
		Polygon{Points: []layout.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}, Fill: "#333333", Class: "device-side"},
		Circle{CX: 10, CY: 10, R: 2, Fill: "#444444", Class: "port"},
		Line{X1: 0, Y1: 0, X2: 9, Y2: 9, Stroke: "#555555", StrokeWidth: 1},
		Text{X: 5, Y: 5, Content: "sw1", FontSize: 9, Fill: "#666666", Anchor: "middle", Class: "device-label"},
		Badge{X: 0, Y: 20, W: 30, H: 12, Fill: "#777777", TextFill: "#888888", Label: "1000base-t ×48", FontSize: 9},
	)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var got Scene
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(orig, &got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", &got, orig)
	}
}

func TestSceneJSONUnknownKind(t *testing.T) {
	var s Scene
	err := json.Unmarshal([]byte(`{"width":1,"height":1,"elements":[{"kind":"sprite"}]}`), &s)
	if err == nil {
		t.Error("unknown element kind should fail to decode")
	}
}
