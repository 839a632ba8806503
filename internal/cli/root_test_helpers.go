package cli

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/export"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/history"
	clitestkit "github.com/crmarques/bloxsync/internal/cli/testkit"
	"github.com/crmarques/bloxsync/reconcile"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

func executeForTest(deps Dependencies, stdin string, args ...string) (string, error) {
	return clitestkit.ExecuteCommandForTest(NewRootCommand(deps), stdin, args...)
}

func executeForTestWithStreams(deps Dependencies, stdin string, args ...string) (string, string, error) {
	return clitestkit.ExecuteCommandForTestWithStreams(NewRootCommand(deps), stdin, args...)
}

func registeredPaths(command *cobra.Command, prefix []string) [][]string {
	return clitestkit.RegisteredPaths(command, prefix)
}

func joinPath(path []string) string {
	return clitestkit.JoinPath(path)
}

func testDeps() Dependencies {
	credentialStore := &testCredentialStore{}
	return Dependencies{
		Project:    testProject(),
		Store:      newTestLockStore(),
		Gateway:    &testGateway{},
		Reconciler: &testReconciler{},
		Exporter:   &testExporter{},
		OpenCredentialStore: func(string) (credentials.Store, error) {
			return credentialStore, nil
		},
		OpenRecorder: func(string, config.History) (history.Recorder, error) {
			return &testRecorder{}, nil
		},
		CredentialStorePath: "/home/tester/.bloxsync/credentials.yaml",
		RunID:               "test-run",
	}
}

func testProject() *config.Project {
	price := int64(250)
	return &config.Project{
		AssetsDir: "assets",
		Creator:   &config.Creator{ID: 77, Type: config.CreatorUser},
		Universe:  config.UniverseSettings{ID: 4242},
		GamePasses: []config.GamePassEntry{
			{Name: "VIP", Price: &price, Icon: "vip.png"},
			{Name: "Radio"},
		},
		DeveloperProducts: []config.DeveloperProduct{
			{Name: "100 Coins", Price: 10},
		},
		Badges: []config.BadgeEntry{
			{Name: "Welcome"},
		},
		Places: []config.PlaceEntry{
			{PlaceID: 111, FilePath: "place.rbxl", Publish: true},
		},
	}
}

// sampleReport mixes the action shapes a healthy run produces: a create with
// its follow-up icon upload plus an unconditional update.
func sampleReport() reconcile.Report {
	return reconcile.Report{
		Actions: []reconcile.Action{
			{Ref: resource.Ref{Kind: resource.GamePass, Name: "VIP"}, Operation: reconcile.OperationCreate, Detail: "remote id 9001"},
			{Ref: resource.Ref{Kind: resource.GamePass, Name: "VIP"}, Operation: reconcile.OperationIcon, Detail: "asset 501"},
			{Ref: resource.Ref{Kind: resource.Badge, Name: "Welcome"}, Operation: reconcile.OperationUpdate},
		},
	}
}

type testReconciler struct {
	syncReport    reconcile.Report
	syncErr       error
	syncOpts      []reconcile.Options
	publishReport reconcile.Report
	publishErr    error
	publishOpts   []reconcile.Options
}

func (r *testReconciler) Sync(_ context.Context, opts reconcile.Options) (reconcile.Report, error) {
	r.syncOpts = append(r.syncOpts, opts)
	if r.syncErr != nil {
		return reconcile.Report{}, r.syncErr
	}
	report := r.syncReport
	report.DryRun = opts.DryRun
	return report, nil
}

func (r *testReconciler) PublishPlaces(_ context.Context, opts reconcile.Options) (reconcile.Report, error) {
	r.publishOpts = append(r.publishOpts, opts)
	if r.publishErr != nil {
		return reconcile.Report{}, r.publishErr
	}
	report := r.publishReport
	report.DryRun = opts.DryRun
	return report, nil
}

type testLockStore struct {
	universe     *state.UniverseSnapshot
	entries      map[resource.Kind]map[string]state.Entry
	persistCalls int
	persistErr   error
}

func newTestLockStore() *testLockStore {
	return &testLockStore{entries: map[resource.Kind]map[string]state.Entry{}}
}

func (s *testLockStore) Lookup(kind resource.Kind, name string) (state.Entry, bool) {
	entry, found := s.entries[kind][name]
	return entry, found
}

func (s *testLockStore) Upsert(kind resource.Kind, name string, entry state.Entry) {
	if s.entries[kind] == nil {
		s.entries[kind] = map[string]state.Entry{}
	}
	s.entries[kind][name] = entry
}

func (s *testLockStore) Entries(kind resource.Kind) map[string]state.Entry {
	copied := make(map[string]state.Entry, len(s.entries[kind]))
	for name, entry := range s.entries[kind] {
		copied[name] = entry
	}
	return copied
}

func (s *testLockStore) Universe() *state.UniverseSnapshot {
	return s.universe
}

func (s *testLockStore) SetUniverse(snapshot state.UniverseSnapshot) {
	s.universe = &snapshot
}

func (s *testLockStore) Prune(keep map[resource.Kind][]string) []resource.Ref {
	removed := make([]resource.Ref, 0)
	for kind, byName := range s.entries {
		kept := map[string]bool{}
		for _, name := range keep[kind] {
			kept[name] = true
		}
		for name := range byName {
			if !kept[name] {
				removed = append(removed, resource.Ref{Kind: kind, Name: name})
				delete(byName, name)
			}
		}
	}
	sort.Slice(removed, func(i, j int) bool {
		if removed[i].Kind != removed[j].Kind {
			return removed[i].Kind < removed[j].Kind
		}
		return removed[i].Name < removed[j].Name
	})
	return removed
}

func (s *testLockStore) Persist(context.Context) error {
	s.persistCalls++
	return s.persistErr
}

type testGateway struct {
	pingCalls int
	pingErr   error
}

func (g *testGateway) Get(context.Context, resource.Kind, int64) (remote.Snapshot, error) {
	return remote.Snapshot{}, nil
}

func (g *testGateway) List(context.Context, resource.Kind) ([]remote.Snapshot, error) {
	return nil, nil
}

func (g *testGateway) Create(context.Context, resource.Kind, remote.Payload) (int64, error) {
	return 0, nil
}

func (g *testGateway) Update(context.Context, resource.Kind, int64, remote.Payload) error {
	return nil
}

func (g *testGateway) UploadAsset(context.Context, remote.AssetUpload) (remote.OperationHandle, error) {
	return remote.OperationHandle{}, nil
}

func (g *testGateway) PollOperation(context.Context, remote.OperationHandle) (remote.AssetOutcome, error) {
	return remote.AssetOutcome{}, nil
}

func (g *testGateway) SetBadgeIcon(context.Context, int64, remote.AssetUpload) error {
	return nil
}

func (g *testGateway) UpdateUniverse(context.Context, int64, remote.Payload) error {
	return nil
}

func (g *testGateway) PublishPlace(context.Context, int64, int64, []byte) (int64, error) {
	return 0, nil
}

func (g *testGateway) Ping(context.Context) error {
	g.pingCalls++
	return g.pingErr
}

type testExporter struct {
	data    []byte
	err     error
	options []export.Options
}

func (e *testExporter) Export(_ context.Context, opts export.Options) ([]byte, error) {
	e.options = append(e.options, opts)
	if e.err != nil {
		return nil, e.err
	}
	if e.data != nil {
		return e.data, nil
	}
	return []byte("universe:\n    id: 4242\n"), nil
}

type testRecorder struct {
	initCalls   int
	initErr     error
	recordCalls []string
	recordErr   error
	committed   bool
	status      history.Status
	statusErr   error
}

func (r *testRecorder) Init(context.Context) error {
	r.initCalls++
	return r.initErr
}

func (r *testRecorder) Record(_ context.Context, message string) (bool, error) {
	r.recordCalls = append(r.recordCalls, message)
	if r.recordErr != nil {
		return false, r.recordErr
	}
	return r.committed, nil
}

func (r *testRecorder) Status(context.Context) (history.Status, error) {
	if r.statusErr != nil {
		return history.Status{}, r.statusErr
	}
	return r.status, nil
}

type testCredentialStore struct {
	saved      *credentials.Credentials
	saveErr    error
	loadErr    error
	clearCalls int
	exists     bool
}

func (s *testCredentialStore) Save(_ context.Context, creds credentials.Credentials) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := creds
	s.saved = &copied
	s.exists = true
	return nil
}

func (s *testCredentialStore) Load(context.Context) (credentials.Credentials, error) {
	if s.loadErr != nil {
		return credentials.Credentials{}, s.loadErr
	}
	if s.saved == nil {
		return credentials.Credentials{}, faults.NewTypedError(faults.NotFoundError, "no credentials stored", nil)
	}
	return *s.saved, nil
}

func (s *testCredentialStore) Clear(context.Context) error {
	s.clearCalls++
	s.saved = nil
	s.exists = false
	return nil
}

func (s *testCredentialStore) Exists() bool {
	return s.exists
}

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %q error, got nil", category)
	}

	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if typedErr.Category != category {
		t.Fatalf("expected %q category, got %q: %v", category, typedErr.Category, err)
	}
}
