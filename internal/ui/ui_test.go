package ui

import (
	"bytes"
	"strings"
	"testing"
)

func plainColors() *ColorConfig {
	return &ColorConfig{Enabled: false, EmojiEnabled: false, Theme: DefaultTheme()}
}

func TestPrinter_StatusLines(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{format: "text", Colors: plainColors(), W: &buf}

	p.Success("account created")
	p.Info("using default address")
	p.Warn("service is running")
	p.Error("write failed")
	p.KeyValueLine("Unit file", "/etc/systemd/system/tesseract-olap.service", "blue")

	want := "[OK] account created\n" +
		"[INFO] using default address\n" +
		"[WARN] service is running\n" +
		"[ERR] write failed\n" +
		"Unit file: /etc/systemd/system/tesseract-olap.service\n"
	if buf.String() != want {
		t.Errorf("output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrinter_Emit(t *testing.T) {
	v := map[string]int{"occurrences": 2}

	var js bytes.Buffer
	if err := (Printer{format: "json", Colors: plainColors(), W: &js}).Emit(v); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"occurrences": 2`) {
		t.Errorf("json output: %s", js.String())
	}

	var ym bytes.Buffer
	if err := (Printer{format: "yaml", Colors: plainColors(), W: &ym}).Emit(v); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(ym.String()) != "occurrences: 2" {
		t.Errorf("yaml output: %s", ym.String())
	}
}

func TestPrinter_Structured(t *testing.T) {
	for format, want := range map[string]bool{"text": false, "": false, "json": true, "yaml": true} {
		if got := NewPrinter(format).Structured(); got != want {
			t.Errorf("Structured(%q) = %v, want %v", format, got, want)
		}
	}
}

func TestTable(t *testing.T) {
	out := Table(plainColors(), []string{"TOKEN", "VALUE"}, [][]string{
		{"127.0.0.1:9000", "10.0.0.5:9000"},
		{"schema.json", "/srv/data/custom.json"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "TOKEN          VALUE") {
		t.Errorf("header not aligned: %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "schema.json    /srv/data/custom.json") {
		t.Errorf("row not aligned: %q", lines[3])
	}
}

func TestGuidanceBox_Plain(t *testing.T) {
	out := GuidanceBox(plainColors(), "Next steps", []string{"sudo systemctl start tesseract-olap"})
	want := "Next steps\n  sudo systemctl start tesseract-olap\n"
	if out != want {
		t.Errorf("GuidanceBox() = %q, want %q", out, want)
	}
}

func TestGuidanceBox_Styled(t *testing.T) {
	c := plainColors()
	c.Enabled = true
	out := GuidanceBox(c, "Next steps", []string{"sudo systemctl daemon-reload"})
	if !strings.Contains(out, "systemctl daemon-reload") || !strings.Contains(out, "Next steps") {
		t.Errorf("styled box lost content: %q", out)
	}
}

func TestErrorMessage_Format(t *testing.T) {
	e := ErrorMessage{
		Problem: "unit file not found",
		Actions: []string{"install the tesseract-olap package first"},
	}
	out := e.Format(plainColors())
	for _, want := range []string{"[ERR] Error", "Problem: unit file not found", "→ install the tesseract-olap package first"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
