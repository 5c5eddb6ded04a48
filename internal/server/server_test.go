package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/store"
)

func testCatalog(t *testing.T) *rack.Catalog {
	t.Helper()
	cat := rack.NewCatalog()
	types := []rack.DeviceType{
		{Slug: "switch-48p", Model: "48-Port Switch", UHeight: 1, Category: "switch",
			Interfaces: []rack.Interface{{Name: "eth0", Type: "1000base-t"}}},
		{Slug: "server-2u", Model: "2U Server", UHeight: 2, IsFullDepth: true, Category: "server"},
	}
	for _, dt := range types {
		if err := cat.Add(dt); err != nil {
			t.Fatal(err)
		}
	}
	return cat
}

func testServer(t *testing.T) (*httptest.Server, store.RackStore) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(st, testCatalog(t), nil, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func testRackJSON() []byte {
	rk := rack.Rack{
		Name:   "row-a-01",
		Height: 42,
		Width:  rack.Width19,
		Devices: []rack.PlacedDevice{
			{ID: "sw1", DeviceType: "switch-48p", Position: 40, Face: rack.FaceFront},
			{ID: "srv1", DeviceType: "server-2u", Position: 1, Face: rack.FaceFront},
		},
	}
	data, _ := json.Marshal(rk)
	return data
}

func doJSON(t *testing.T, method, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func createRack(t *testing.T, ts *httptest.Server) store.RackRecord {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/racks", testRackJSON())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var rec store.RackRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" {
		t.Fatal("created rack has no ID")
	}
	return rec
}

func TestRackCRUD(t *testing.T) {
	ts, _ := testServer(t)
	rec := createRack(t, ts)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/racks/"+rec.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d: %s", resp.StatusCode, body)
	}

	var got store.RackRecord
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Rack.Name != "row-a-01" {
		t.Errorf("name = %q", got.Rack.Name)
	}

	// Update the height.
	got.Rack.Height = 48
	updated, _ := json.Marshal(got.Rack)
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/racks/"+rec.ID, updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/racks/"+rec.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/racks/"+rec.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestCreateRackConflict(t *testing.T) {
	ts, _ := testServer(t)

	rk := rack.Rack{
		Name:   "bad",
		Height: 42,
		Width:  rack.Width19,
		Devices: []rack.PlacedDevice{
			{ID: "a", DeviceType: "switch-48p", Position: 10, Face: rack.FaceFront},
			{ID: "b", DeviceType: "switch-48p", Position: 10, Face: rack.FaceFront},
		},
	}
	data, _ := json.Marshal(rk)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/racks", data)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatal(err)
	}
	if er.Error.Code != "PLACEMENT_CONFLICT" {
		t.Errorf("code = %q", er.Error.Code)
	}
	if got := er.Error.Conflicts["a"]; len(got) != 1 || got[0] != "b" {
		t.Errorf("conflicts for a = %v", got)
	}
}

func TestCreateRackUnknownDeviceType(t *testing.T) {
	ts, _ := testServer(t)

	rk := rack.Rack{
		Name: "bad", Height: 42, Width: rack.Width19,
		Devices: []rack.PlacedDevice{
			{ID: "x", DeviceType: "mystery-box", Position: 1, Face: rack.FaceFront},
		},
	}
	data, _ := json.Marshal(rk)
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/racks", data)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestValidatePlacement(t *testing.T) {
	ts, _ := testServer(t)
	rec := createRack(t, ts)

	candidate := rack.PlacedDevice{ID: "new", DeviceType: "server-2u", Position: 39}
	data, _ := json.Marshal(candidate)
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/racks/"+rec.ID+"/validate", data)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var res rack.Result
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Error("placement overlapping sw1 should not be OK")
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0] != "sw1" {
		t.Errorf("conflicts = %v", res.Conflicts)
	}
}

func TestElevationSVG(t *testing.T) {
	ts, _ := testServer(t)
	rec := createRack(t, ts)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/racks/"+rec.ID+"/elevation.svg?legend=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	svg := string(body)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, `id="device-sw1"`) {
		t.Errorf("svg missing expected content:\n%s", svg)
	}
}

func TestElevationJSON(t *testing.T) {
	ts, _ := testServer(t)
	rec := createRack(t, ts)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/racks/"+rec.ID+"/elevation.json", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var scene map[string]any
	if err := json.Unmarshal(body, &scene); err != nil {
		t.Fatalf("scene does not decode: %v", err)
	}
	if scene["title"] != "row-a-01" {
		t.Errorf("title = %v", scene["title"])
	}
}

func TestElevationBadZoom(t *testing.T) {
	ts, _ := testServer(t)
	rec := createRack(t, ts)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/racks/"+rec.ID+"/elevation.svg?zoom=-1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestTopologyDOT(t *testing.T) {
	ts, _ := testServer(t)
	rec := createRack(t, ts)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/racks/"+rec.ID+"/topology.dot", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "graph rack {") {
		t.Errorf("dot output missing graph header:\n%s", body)
	}
}

func TestListThemes(t *testing.T) {
	ts, _ := testServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/themes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var themes map[string][]string
	if err := json.Unmarshal(body, &themes); err != nil {
		t.Fatal(err)
	}
	if len(themes["themes"]) == 0 {
		t.Error("no themes listed")
	}
}
