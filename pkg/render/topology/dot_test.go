package topology

import (
	"strings"
	"testing"

	"github.com/rackworks/rackviz/pkg/rack"
)

func testRack(t *testing.T) (*rack.Rack, *rack.Catalog) {
	t.Helper()
	cat := rack.NewCatalog()
	for _, dt := range []rack.DeviceType{
		{Slug: "switch-48p", Model: "ToR Switch", UHeight: 1, Category: "switch"},
		{Slug: "server-2u", Model: "App Server", UHeight: 2, IsFullDepth: true, Category: "server"},
	} {
		if err := cat.Add(dt); err != nil {
			t.Fatal(err)
		}
	}
	r := &rack.Rack{
		Name: "row-a-01", Height: 42, Width: rack.Width19,
		Devices: []rack.PlacedDevice{
			{ID: "sw", DeviceType: "switch-48p", Position: 40, Face: rack.FaceFront, Name: "tor-1"},
			{ID: "srv", DeviceType: "server-2u", Position: 1, Face: rack.FaceFront},
		},
		Cables: []rack.Cable{
			{
				A:    rack.CableEnd{Device: "sw", Interface: "GigabitEthernet1/0/1"},
				B:    rack.CableEnd{Device: "srv", Interface: "eno1"},
				Type: "cat6",
			},
		},
	}
	return r, cat
}

func TestToDOT(t *testing.T) {
	r, cat := testRack(t)
	dot := ToDOT(r, cat, Options{})

	for _, want := range []string{
		"graph rack {",
		`"sw" [`,
		`"srv" [`,
		`"sw" -- "srv"`,
		`label="tor-1"`,
		"GigabitEthernet1/0/1 / eno1",
		`color="#f44336"`, // cat6
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	r, cat := testRack(t)
	dot := ToDOT(r, cat, Options{Detailed: true})

	if !strings.Contains(dot, "ToR Switch") {
		t.Error("detailed label missing device type name")
	}
	if !strings.Contains(dot, "U40 front") {
		t.Error("detailed label missing position")
	}
}
