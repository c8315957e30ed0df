package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/execx"
)

// fakeRunner records issued steps and can fail at a chosen step name.
type fakeRunner struct {
	steps    []execx.Step
	failAt   string
	captured string
}

func (f *fakeRunner) Run(_ context.Context, step execx.Step) error {
	if step.Name == f.failAt {
		return &execx.StepError{Step: step, Code: 1}
	}
	f.steps = append(f.steps, step)
	return nil
}

func (f *fakeRunner) Capture(_ context.Context, name string, args ...string) (string, error) {
	f.captured = name + " " + strings.Join(args, " ")
	return "NAME    STATE\ntb      Up\npostgres Up\n", nil
}

func newTestManager(t *testing.T, runner Runner) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	return NewManager(zerolog.Nop(), runner, path), path
}

func TestBackupExistingRenamesDescriptor(t *testing.T) {
	m, path := newTestManager(t, &fakeRunner{})
	original := []byte("services: {}\n")
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.BackupExisting(); err != nil {
		t.Fatalf("backup: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("original path should be vacated after backup")
	}
	got, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if string(got) != string(original) {
		t.Fatalf("backup content changed: %q", got)
	}
}

func TestBackupExistingNoopWhenAbsent(t *testing.T) {
	m, path := newTestManager(t, &fakeRunner{})
	if err := m.BackupExisting(); err != nil {
		t.Fatalf("backup of missing descriptor should be a no-op: %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); !os.IsNotExist(err) {
		t.Fatalf("no backup file should be created")
	}
}

func TestBackupThenDeployWritesFreshDescriptor(t *testing.T) {
	runner := &fakeRunner{}
	m, path := newTestManager(t, runner)
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.BackupExisting(); err != nil {
		t.Fatalf("backup: %v", err)
	}
	if err := m.Deploy(context.Background(), NewConfig("", "", "", "")); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	fresh, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("fresh descriptor missing: %v", err)
	}
	if !strings.Contains(string(fresh), "thingsboard/tb-postgres") {
		t.Fatalf("fresh descriptor content: %q", fresh)
	}
	if b, err := os.ReadFile(path + BackupSuffix); err != nil || string(b) != "old" {
		t.Fatalf("backup must survive the deploy: %q %v", b, err)
	}
}

func TestDeployBringsStackUpDetached(t *testing.T) {
	runner := &fakeRunner{}
	m, path := newTestManager(t, runner)
	if err := m.Deploy(context.Background(), NewConfig("", "", "", "")); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if len(runner.steps) != 1 {
		t.Fatalf("expected one compose step, got %d", len(runner.steps))
	}
	up := runner.steps[0]
	if up.Cmd != "docker-compose" {
		t.Fatalf("compose command: %s", up.Cmd)
	}
	want := []string{"-f", path, "up", "-d"}
	if len(up.Args) != len(want) {
		t.Fatalf("compose args: %v", up.Args)
	}
	for i := range want {
		if up.Args[i] != want[i] {
			t.Fatalf("compose args: %v", up.Args)
		}
	}
}

func TestFirewallStepsOrder(t *testing.T) {
	runner := &fakeRunner{}
	m, _ := newTestManager(t, runner)
	if err := m.ConfigureFirewall(context.Background(), "9090", "11883", "15683"); err != nil {
		t.Fatalf("firewall: %v", err)
	}

	if len(runner.steps) != 4 {
		t.Fatalf("expected 3 allow rules + 1 enable, got %d", len(runner.steps))
	}
	for i, port := range []string{"9090", "11883", "15683"} {
		args := runner.steps[i].Args
		if len(args) != 3 || args[0] != "ufw" || args[1] != "allow" || args[2] != port {
			t.Fatalf("allow rule %d: %v", i, args)
		}
	}
	last := runner.steps[3].Args
	if len(last) != 2 || last[0] != "ufw" || last[1] != "enable" {
		t.Fatalf("enable must come last: %v", last)
	}
}

func TestFirewallHaltsOnFailedRule(t *testing.T) {
	runner := &fakeRunner{failAt: "ufw-allow-mqtt"}
	m, _ := newTestManager(t, runner)
	err := m.ConfigureFirewall(context.Background(), "8080", "1883", "5683")
	if err == nil {
		t.Fatalf("expected failure")
	}
	var serr *execx.StepError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	// Only the HTTP rule was issued; neither the CoAP rule nor the enable ran.
	if len(runner.steps) != 1 {
		t.Fatalf("steps after failure: %v", runner.steps)
	}
}

func TestCreateNetworkIsTolerant(t *testing.T) {
	runner := &fakeRunner{}
	m, _ := newTestManager(t, runner)
	name, err := m.CreateNetwork(context.Background())
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	if name != NetworkName {
		t.Fatalf("network name: %s", name)
	}
	if len(runner.steps) != 1 || !runner.steps[0].Tolerant {
		t.Fatalf("network creation must tolerate an existing network: %+v", runner.steps)
	}
}

func TestVerifyQueriesComposeStatus(t *testing.T) {
	runner := &fakeRunner{}
	m, path := newTestManager(t, runner)
	if err := m.Verify(context.Background(), "8080"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(runner.captured, "docker-compose -f "+path+" ps") {
		t.Fatalf("verify probe: %q", runner.captured)
	}
}
