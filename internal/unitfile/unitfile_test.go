package unitfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleUnit = `[Unit]
Description=Tesseract OLAP server
After=network.target

[Service]
User=tesseract
Environment=TESSERACT_DATABASE_URL=127.0.0.1:9000
Environment=TESSERACT_SCHEMA_FILEPATH=schema.json
ExecStart=/usr/local/bin/tesseract-olap
Restart=always

[Install]
WantedBy=multi-user.target
`

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name        string
		contents    string
		token       string
		replacement string
		want        string
		wantN       int
	}{
		{
			name:        "address",
			contents:    "a=127.0.0.1:9000\nb=127.0.0.1:9000\n",
			token:       "127.0.0.1:9000",
			replacement: "10.0.0.5:9000",
			want:        "a=10.0.0.5:9000\nb=10.0.0.5:9000\n",
			wantN:       2,
		},
		{
			name:        "no match",
			contents:    "nothing here\n",
			token:       "schema.json",
			replacement: "/srv/data/custom.json",
			want:        "nothing here\n",
			wantN:       0,
		},
		{
			name:        "literal dots",
			contents:    "127x0x0x1:9000 127.0.0.1:9000",
			token:       "127.0.0.1:9000",
			replacement: "db:9000",
			want:        "127x0x0x1:9000 db:9000",
			wantN:       1,
		},
		{
			name:        "empty token",
			contents:    "abc",
			token:       "",
			replacement: "x",
			want:        "abc",
			wantN:       0,
		},
		{
			name:        "replacement already present",
			contents:    "A=127.0.0.1:9000\n# was 127.0.0.1:90001\n",
			token:       "127.0.0.1:9000",
			replacement: "127.0.0.1:90001",
			want:        "A=127.0.0.1:90001\n# was 127.0.0.1:900011\n",
			wantN:       2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Substitute(tt.contents, tt.token, tt.replacement)
			if got != tt.want {
				t.Errorf("Substitute() = %q, want %q", got, tt.want)
			}
			if n != tt.wantN {
				t.Errorf("Substitute() count = %d, want %d", n, tt.wantN)
			}
		})
	}
}

func TestSubstituteIdempotent(t *testing.T) {
	tests := []struct {
		name        string
		contents    string
		token       string
		replacement string
		want        string
		wantN       int
	}{
		{
			name:        "replacement contains token",
			contents:    "P=schema.json\nQ=/home/u/tesseract-schema/schema.json\n",
			token:       "schema.json",
			replacement: "/home/u/tesseract-schema/schema.json",
			want:        "P=/home/u/tesseract-schema/schema.json\nQ=/home/u/tesseract-schema/schema.json\n",
			wantN:       1,
		},
		{
			name:        "replacement without token",
			contents:    "P=schema.json\n",
			token:       "schema.json",
			replacement: "/srv/data/custom.json",
			want:        "P=/srv/data/custom.json\n",
			wantN:       1,
		},
		{
			name:        "token equals replacement",
			contents:    "P=schema.json\n",
			token:       "schema.json",
			replacement: "schema.json",
			want:        "P=schema.json\n",
			wantN:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := SubstituteIdempotent(tt.contents, tt.token, tt.replacement)
			if got != tt.want || n != tt.wantN {
				t.Errorf("SubstituteIdempotent() = %q, %d; want %q, %d", got, n, tt.want, tt.wantN)
			}
		})
	}
}

func TestSubstituteIdempotent_SecondPassNoop(t *testing.T) {
	repl := "/home/olap/tesseract-schema/schema.json"
	once, _ := SubstituteIdempotent(sampleUnit, "schema.json", repl)
	twice, n := SubstituteIdempotent(once, "schema.json", repl)
	if once != twice {
		t.Fatalf("second pass changed contents:\n%s\nvs\n%s", once, twice)
	}
	if n != 0 {
		t.Errorf("second pass replaced %d occurrences, want 0", n)
	}
}

func seedUnit(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tesseract-olap.service")
	if err := os.WriteFile(path, []byte(body), 0o640); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplaceAll_Address(t *testing.T) {
	path := seedUnit(t, sampleUnit)

	res, err := ReplaceAll(New(path), "127.0.0.1:9000", "10.0.0.5:9000")
	if err != nil {
		t.Fatal(err)
	}
	if res.Occurrences != 1 || !res.Changed() {
		t.Errorf("unexpected result: %+v", res)
	}

	b, _ := os.ReadFile(path)
	want := strings.ReplaceAll(sampleUnit, "127.0.0.1:9000", "10.0.0.5:9000")
	if string(b) != want {
		t.Errorf("file contents:\n%s\nwant:\n%s", b, want)
	}

	st, _ := os.Stat(path)
	if st.Mode().Perm() != 0o640 {
		t.Errorf("mode changed to %o", st.Mode().Perm())
	}
}

func TestReplaceAll_NoMatchStillWrites(t *testing.T) {
	path := seedUnit(t, "[Service]\n")

	res, err := ReplaceAll(New(path), "schema.json", "/srv/data/custom.json")
	if err != nil {
		t.Fatal(err)
	}
	if res.Occurrences != 0 || res.Changed() {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestReplaceAll_LiteralWhenReplacementPresent(t *testing.T) {
	body := "Environment=TESSERACT_DATABASE_URL=127.0.0.1:9000\n# previous 127.0.0.1:90001\n"
	path := seedUnit(t, body)

	res, err := ReplaceAll(New(path), "127.0.0.1:9000", "127.0.0.1:90001")
	if err != nil {
		t.Fatal(err)
	}
	if res.Occurrences != 2 {
		t.Errorf("Occurrences = %d, want 2", res.Occurrences)
	}
	b, _ := os.ReadFile(path)
	if want := strings.ReplaceAll(body, "127.0.0.1:9000", "127.0.0.1:90001"); string(b) != want {
		t.Errorf("file contents:\n%s\nwant:\n%s", b, want)
	}
}

func TestReplaceAllIdempotent_DefaultSchema(t *testing.T) {
	path := seedUnit(t, sampleUnit)
	repl := "/home/olap/tesseract-schema/schema.json"

	first, err := ReplaceAllIdempotent(New(path), "schema.json", repl)
	if err != nil {
		t.Fatal(err)
	}
	afterFirst, _ := os.ReadFile(path)

	second, err := ReplaceAllIdempotent(New(path), "schema.json", repl)
	if err != nil {
		t.Fatal(err)
	}
	afterSecond, _ := os.ReadFile(path)

	if first.Occurrences != 1 || second.Occurrences != 0 || second.Changed() {
		t.Errorf("first=%+v second=%+v", first, second)
	}
	if string(afterFirst) != string(afterSecond) {
		t.Errorf("second pass changed the file:\n%s", afterSecond)
	}
}

func TestReplaceAll_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.service")

	_, err := ReplaceAll(New(path), "schema.json", "x")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("ReplaceAll must not create the unit file")
	}
}

func TestEnvValue(t *testing.T) {
	v, ok := EnvValue(sampleUnit, "TESSERACT_DATABASE_URL")
	if !ok || v != "127.0.0.1:9000" {
		t.Errorf("TESSERACT_DATABASE_URL = %q, %v", v, ok)
	}

	multi := "Environment=\"A=1\" B=2\nEnvironment=A=3\n"
	if v, _ := EnvValue(multi, "A"); v != "3" {
		t.Errorf("later assignment should win, got %q", v)
	}
	if v, _ := EnvValue(multi, "B"); v != "2" {
		t.Errorf("B = %q, want 2", v)
	}
	if _, ok := EnvValue(multi, "C"); ok {
		t.Error("C should be absent")
	}
}
