package outputs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMissingSorted(t *testing.T) {
	dir := Dir{Path: t.TempDir()}
	if err := WriteJSON(dir.File(ShortlistFile), map[string]int{"a": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := dir.Missing()
	want := []string{
		dir.File(AlertsFile),
		dir.File(AllocationFile),
		dir.File(PerformanceSummaryFile),
		dir.File(PlansFile),
		dir.File(RankedPoolsFile),
		dir.File(RegimeStateFile),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("missing = %v, want %v", got, want)
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := WriteJSON(path, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "{\n  \"k\": \"v\"\n}\n" {
		t.Fatalf("unexpected content %q", data)
	}

	var back map[string]string
	if err := ReadJSON(path, &back); err != nil || back["k"] != "v" {
		t.Fatalf("read back: %v %v", back, err)
	}
}

func TestStagedCommitAndDiscard(t *testing.T) {
	dir := Dir{Path: t.TempDir()}
	target := dir.File(PlansFile)
	if err := WriteFile(target, []byte("old\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var st Staged
	if err := st.Stage(target, []byte("new\n")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := st.StageJSON(dir.File(AlertsFile), []string{}); err != nil {
		t.Fatalf("stage json: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "old\n" {
		t.Fatalf("target replaced before commit: %q", data)
	}
	st.Discard()
	if _, err := os.Stat(target + pendingSuffix); !os.IsNotExist(err) {
		t.Fatalf("pending file left after discard")
	}
	if _, err := os.Stat(dir.File(AlertsFile)); !os.IsNotExist(err) {
		t.Fatalf("discarded file should not exist")
	}

	if err := st.Stage(target, []byte("new\n")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := st.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	data, _ = os.ReadFile(target)
	if string(data) != "new\n" {
		t.Fatalf("target = %q after commit", data)
	}
	st.Discard()
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("discard after commit removed target: %v", err)
	}
}
