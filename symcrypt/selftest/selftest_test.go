package selftest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestDefaultSuitePasses(t *testing.T) {
	vectors, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(vectors) != 14 {
		t.Fatalf("expected 14 built-in vectors, got %d", len(vectors))
	}

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	rep := Run(vectors, log)
	if err := rep.Err(); err != nil {
		t.Fatalf("built-in suite failed: %v\n%s", err, spew.Sdump(rep))
	}
	if rep.Passed != len(vectors) {
		t.Fatalf("Passed: got %d", rep.Passed)
	}

	last := hook.LastEntry()
	if last == nil || last.Level != logrus.InfoLevel || last.Data["passed"] != len(vectors) {
		t.Fatalf("unexpected summary entry: %s", spew.Sdump(last))
	}
}

func TestDefaultSuiteFields(t *testing.T) {
	vectors, _ := Default()
	v := vectors[len(vectors)-1]
	if v.Name != "arcfour-secret" || v.Key != "text:Secret" || v.Plaintext != "text:Attack at dawn" {
		t.Fatalf("unexpected vector: %s", spew.Sdump(v))
	}
}

func TestRunReportsFailures(t *testing.T) {
	vectors := []Vector{
		{Name: "good", Algorithm: "blowfish", Key: "0000000000000000", Plaintext: "0000000000000000", Ciphertext: "4ef997456198dd78"},
		{Name: "wrong-ct", Algorithm: "blowfish", Key: "0000000000000000", Plaintext: "0000000000000000", Ciphertext: "0000000000000000"},
		{Name: "bad-alg", Algorithm: "des", Key: "00", Plaintext: "00", Ciphertext: "00"},
		{Name: "bad-hex", Algorithm: "aes-ecb", Key: "zz", Plaintext: "00", Ciphertext: "00"},
		{Name: "bad-key", Algorithm: "aes-ecb", Key: "0011", Plaintext: "00112233445566778899aabbccddeeff", Ciphertext: "00112233445566778899aabbccddeeff"},
	}

	log, hook := logtest.NewNullLogger()
	rep := Run(vectors, log)
	if rep.Passed != 1 || rep.Failed != 4 {
		t.Fatalf("got %d passed, %d failed", rep.Passed, rep.Failed)
	}
	if rep.Failures[0].Name != "wrong-ct" || !errors.Is(rep.Failures[0].Err, ErrMismatch) {
		t.Fatalf("unexpected first failure: %s", spew.Sdump(rep.Failures[0]))
	}

	err := rep.Err()
	if !errors.Is(err, ErrFailed) || !errors.Is(err, ErrMismatch) {
		t.Fatalf("Err: %v", err)
	}

	errorsLogged := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}
	if errorsLogged != 4 {
		t.Fatalf("logged %d errors, want 4", errorsLogged)
	}
}

func TestFailFast(t *testing.T) {
	vectors := []Vector{
		{Name: "first", Algorithm: "arcfour", Key: "text:Key", Plaintext: "text:x", Ciphertext: "00"},
		{Name: "second", Algorithm: "arcfour", Key: "text:Key", Plaintext: "text:x", Ciphertext: "00"},
	}
	rep := Runner{FailFast: true}.Run(vectors)
	if rep.Failed != 1 || len(rep.Failures) != 1 {
		t.Fatalf("FailFast ran past the first failure: %s", spew.Sdump(rep))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`vectors:
  - name: wiki
    algorithm: arcfour
    key: "text:Wiki"
    plaintext: "text:pedia"
    ciphertext: "1021bf0420"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	vectors, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(vectors) != 1 || vectors[0].Name != "wiki" {
		t.Fatalf("unexpected vectors: %s", spew.Sdump(vectors))
	}
	if err := Run(vectors, nil).Err(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	_ = os.WriteFile(empty, []byte("other: 1\n"), 0o600)
	if _, err := LoadFile(empty); err != ErrNoVectors {
		t.Fatalf("expected ErrNoVectors, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCheckLengthMismatch(t *testing.T) {
	err := Check(Vector{Name: "n", Algorithm: "arcfour", Key: "text:k", Plaintext: "text:ab", Ciphertext: "00"})
	if err == nil {
		t.Fatalf("expected length mismatch error")
	}
}
