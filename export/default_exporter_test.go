package export

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
)

// fakeListGateway serves scripted list pages. List is called from the
// exporter's concurrent fan-out, so the counter is guarded.
type fakeListGateway struct {
	mu        sync.Mutex
	lists     map[resource.Kind][]remote.Snapshot
	listErr   map[resource.Kind]error
	listCalls int
}

func (f *fakeListGateway) Get(ctx context.Context, kind resource.Kind, id int64) (remote.Snapshot, error) {
	return remote.Snapshot{}, faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) List(ctx context.Context, kind resource.Kind) ([]remote.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if err := f.listErr[kind]; err != nil {
		return nil, err
	}
	return f.lists[kind], nil
}

func (f *fakeListGateway) Create(ctx context.Context, kind resource.Kind, payload remote.Payload) (int64, error) {
	return 0, faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) Update(ctx context.Context, kind resource.Kind, id int64, payload remote.Payload) error {
	return faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) UploadAsset(ctx context.Context, upload remote.AssetUpload) (remote.OperationHandle, error) {
	return remote.OperationHandle{}, faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) PollOperation(ctx context.Context, handle remote.OperationHandle) (remote.AssetOutcome, error) {
	return remote.AssetOutcome{}, faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) SetBadgeIcon(ctx context.Context, badgeID int64, icon remote.AssetUpload) error {
	return faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) UpdateUniverse(ctx context.Context, universeID int64, patch remote.Payload) error {
	return faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) PublishPlace(ctx context.Context, universeID int64, placeID int64, contents []byte) (int64, error) {
	return 0, faults.NewTypedError(faults.InternalError, "not implemented", nil)
}

func (f *fakeListGateway) Ping(ctx context.Context) error {
	return nil
}

func newPopulatedGateway() *fakeListGateway {
	return &fakeListGateway{
		lists: map[resource.Kind][]remote.Snapshot{
			resource.GamePass: {
				{ID: 111, Name: "VIP", Fields: map[string]any{
					"name":        "VIP",
					"description": "Very Important",
					"price":       json.Number("99"),
					"isForSale":   true,
				}},
			},
			resource.DeveloperProduct: {
				{ID: 222, Name: "Coins", Fields: map[string]any{
					"name":     "Coins",
					"price":    json.Number("10"),
					"isActive": false,
				}},
			},
			resource.Badge: {
				{ID: 333, Name: "Winner", Fields: map[string]any{
					"name":        "Winner",
					"description": "First win",
					"enabled":     true,
				}},
			},
		},
		listErr: map[resource.Kind]error{},
	}
}

func newTestExporter(t *testing.T, gateway *fakeListGateway) *DefaultExporter {
	t.Helper()

	exporter, err := NewDefaultExporter(gateway, 77)
	if err != nil {
		t.Fatalf("exporter construction returned error: %v", err)
	}
	return exporter
}

func TestNewDefaultExporterValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewDefaultExporter(nil, 77); !faults.IsCategory(err, faults.InternalError) {
		t.Fatalf("expected an internal error for a nil gateway, got: %v", err)
	}
	if _, err := NewDefaultExporter(&fakeListGateway{}, 0); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error for universe id 0, got: %v", err)
	}
}

func TestExportRendersConfigShapedYAML(t *testing.T) {
	t.Parallel()

	gateway := newPopulatedGateway()
	exporter := newTestExporter(t, gateway)

	data, err := exporter.Export(context.Background(), Options{Format: FormatYAML})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if gateway.listCalls != 3 {
		t.Fatalf("expected one list per kind, got %d", gateway.listCalls)
	}

	var document map[string]any
	if err := yaml.Unmarshal(data, &document); err != nil {
		t.Fatalf("export output is not valid yaml: %v", err)
	}

	universe, ok := document["universe"].(map[string]any)
	if !ok || universe["id"] != 77 {
		t.Fatalf("expected the universe id in the document, got: %v", document["universe"])
	}

	passes, ok := document["game-passes"].([]any)
	if !ok || len(passes) != 1 {
		t.Fatalf("expected one game pass, got: %v", document["game-passes"])
	}
	pass := passes[0].(map[string]any)
	if pass["name"] != "VIP" || pass["id"] != 111 || pass["price"] != 99 || pass["is-for-sale"] != true {
		t.Fatalf("unexpected game pass entry: %v", pass)
	}

	products := document["developer-products"].([]any)
	product := products[0].(map[string]any)
	if product["is-active"] != false {
		t.Fatalf("expected is-active carried through, got: %v", product)
	}
	if _, hasDescription := product["description"]; hasDescription {
		t.Fatal("absent remote fields must not appear in the document")
	}

	badges := document["badges"].([]any)
	badge := badges[0].(map[string]any)
	if badge["is-enabled"] != true || badge["description"] != "First win" {
		t.Fatalf("unexpected badge entry: %v", badge)
	}
}

func TestExportRendersJSON(t *testing.T) {
	t.Parallel()

	exporter := newTestExporter(t, newPopulatedGateway())

	data, err := exporter.Export(context.Background(), Options{Format: FormatJSON})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		t.Fatalf("export output is not valid json: %v", err)
	}
	passes := document["game-passes"].([]any)
	pass := passes[0].(map[string]any)
	if pass["price"] != float64(99) {
		t.Fatalf("unexpected price in json output: %v", pass["price"])
	}
}

func TestExportRendersLuauModule(t *testing.T) {
	t.Parallel()

	gateway := newPopulatedGateway()
	gateway.lists[resource.GamePass][0].Fields["description"] = `He said "hi"`
	exporter := newTestExporter(t, gateway)

	data, err := exporter.Export(context.Background(), Options{Format: FormatLuau})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	output := string(data)
	if !strings.HasPrefix(output, "return {") {
		t.Fatalf("expected a luau module, got: %q", output)
	}
	for _, want := range []string{
		"game_passes = {",
		"developer_products = {",
		"badges = {",
		`name = "VIP"`,
		"price = 99",
		"is_for_sale = true",
		`description = "He said \"hi\""`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in luau output:\n%s", want, output)
		}
	}
}

func TestExportAppliesQueryBeforeRendering(t *testing.T) {
	t.Parallel()

	exporter := newTestExporter(t, newPopulatedGateway())

	data, err := exporter.Export(context.Background(), Options{
		Format: FormatJSON,
		Query:  `."game-passes" | map(.name)`,
	})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		t.Fatalf("query output is not a json array: %v", err)
	}
	if len(names) != 1 || names[0] != "VIP" {
		t.Fatalf("unexpected query result: %v", names)
	}
}

func TestExportCollectsMultipleQueryOutputs(t *testing.T) {
	t.Parallel()

	exporter := newTestExporter(t, newPopulatedGateway())

	data, err := exporter.Export(context.Background(), Options{
		Format: FormatJSON,
		Query:  ".universe.id, .badges[0].name",
	})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	var results []any
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("expected an array of outputs: %v", err)
	}
	if len(results) != 2 || results[0] != float64(77) || results[1] != "Winner" {
		t.Fatalf("unexpected outputs: %v", results)
	}
}

func TestExportRejectsInvalidQuery(t *testing.T) {
	t.Parallel()

	exporter := newTestExporter(t, newPopulatedGateway())

	_, err := exporter.Export(context.Background(), Options{Query: "]["})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error, got: %v", err)
	}
}

func TestExportPropagatesListFailure(t *testing.T) {
	t.Parallel()

	gateway := newPopulatedGateway()
	gateway.listErr[resource.Badge] = faults.NewTypedError(faults.TransportError, "listing offline", nil)
	exporter := newTestExporter(t, gateway)

	_, err := exporter.Export(context.Background(), Options{})
	if !faults.IsCategory(err, faults.TransportError) {
		t.Fatalf("expected the transport error through the fan-out, got: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Format
		wantErr bool
	}{
		{name: "empty_defaults_to_yaml", raw: "", want: FormatYAML},
		{name: "yaml", raw: "yaml", want: FormatYAML},
		{name: "json_upper", raw: "JSON", want: FormatJSON},
		{name: "luau", raw: "luau", want: FormatLuau},
		{name: "lua_alias", raw: "lua", want: FormatLuau},
		{name: "unknown", raw: "toml", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, err := ParseFormat(tt.raw)
			if tt.wantErr {
				if !faults.IsCategory(err, faults.ValidationError) {
					t.Fatalf("expected a validation error, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat returned error: %v", err)
			}
			if format != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, format)
			}
		})
	}
}
