package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "M103",
			wantMsg: "Invalid inspector port",
			wantCat: CategoryConfig,
		},
		{
			name:    "cli error",
			code:    "M201",
			wantMsg: "Inspector failed to start",
			wantCat: CategoryCLI,
		},
		{
			name:    "runtime error",
			code:    "M301",
			wantMsg: "Container name already registered",
			wantCat: CategoryRuntime,
		},
		{
			name:    "unknown error code",
			code:    "M999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "unknown screen %q", "settings")
	if err.Message != `unknown screen "settings"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `unknown screen "settings"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorIncludesCause(t *testing.T) {
	err := New("M101").Wrap(fs.ErrNotExist)
	if !strings.HasPrefix(err.Error(), "M101: Config file not found") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is did not reach the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "M102") != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := fmt.Errorf("boom")
	got := FromError(plain, "M102")
	if got.Code != "M102" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}

	coded := New("M104")
	wrapped := fmt.Errorf("loading: %w", coded)
	if FromError(wrapped, "M102") != coded {
		t.Error("FromError replaced an existing code")
	}
	if !HasCode(wrapped, "M104") || HasCode(wrapped, "M102") {
		t.Error("HasCode mismatch")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("M103").
		WithFile("mvi.json").
		WithSuggestion("Use a port between 1 and 65535").
		Wrap(fmt.Errorf("port 70000"))

	out := err.Format()
	for _, want := range []string{
		"ERROR M103: Invalid inspector port",
		"mvi.json",
		"The inspector port must be a valid TCP port.",
		"Cause: port 70000",
		"Hint: Use a port between 1 and 65535",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() emitted colors while disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("M105").WithFile("mvi.json")
	if got := err.FormatCompact(); got != "mvi.json: M105: Invalid lifecycle state" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("M106").WithSuggestion("use info").Wrap(fmt.Errorf("loud"))
	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatal(jerr)
	}
	var got map[string]string
	if jerr := json.Unmarshal(data, &got); jerr != nil {
		t.Fatal(jerr)
	}
	if got["code"] != "M106" || got["category"] != "config" || got["cause"] != "loud" || got["suggestion"] != "use info" {
		t.Errorf("json = %s", data)
	}
	if _, ok := got["file"]; ok {
		t.Error("empty file should be omitted")
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, New("M201"))
	if !strings.Contains(buf.String(), "ERROR M201") {
		t.Errorf("Print(coded) = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, fmt.Errorf("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Print(plain) = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line too long: %q", line)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestCodesRegistered(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for _, code := range codes {
		tpl, ok := Lookup(code)
		if !ok || tpl.Message == "" || tpl.Category == "" {
			t.Errorf("code %s has incomplete template %+v", code, tpl)
		}
	}

	Register("M399", Template{Category: CategoryRuntime, Message: "custom"})
	defer delete(registry, "M399")
	if New("M399").Message != "custom" {
		t.Error("Register did not take effect")
	}
}
