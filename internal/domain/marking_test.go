package domain

import "testing"

func TestFormatSequence(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{1, "01"},
		{7, "07"},
		{10, "10"},
		{99, "99"},
		{100, "100"},
		{1234, "1234"},
	}
	for _, tc := range cases {
		if got := FormatSequence(tc.in); got != tc.want {
			t.Fatalf("FormatSequence(%d): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestRenderDisplayCode(t *testing.T) {
	got := RenderDisplayCode("GLB-500", 7, "V2026-08")
	want := "GLB-500|07|V2026-08"
	if got != want {
		t.Fatalf("display code: want=%q got=%q", want, got)
	}
}

func TestRenderBatchLabel(t *testing.T) {
	got := RenderBatchLabel("GLB-500", 1, 5, "V2026-08")
	want := "GLB-500|01|V2026-08 to GLB-500|05|V2026-08"
	if got != want {
		t.Fatalf("batch label: want=%q got=%q", want, got)
	}
}

func TestIsTerminalCodeStatus(t *testing.T) {
	if !IsTerminalCodeStatus(CodeStatusPrinted) || !IsTerminalCodeStatus(CodeStatusFailed) {
		t.Fatalf("printed/failed must be terminal")
	}
	if IsTerminalCodeStatus(CodeStatusGenerated) {
		t.Fatalf("generated must not be terminal")
	}
	if IsTerminalCodeStatus("") || IsTerminalCodeStatus("shipped") {
		t.Fatalf("unknown statuses must not be terminal")
	}
}

func TestDeriveBatchStatus(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"empty", nil, ""},
		{"all generated", []string{CodeStatusGenerated, CodeStatusGenerated}, ""},
		{"all printed", []string{CodeStatusPrinted, CodeStatusPrinted}, BatchStatusPrinted},
		{"all failed", []string{CodeStatusFailed, CodeStatusFailed}, BatchStatusFailed},
		{"mixed printed and failed", []string{CodeStatusPrinted, CodeStatusFailed}, BatchStatusPartiallyPrinted},
		{"printed with pending", []string{CodeStatusPrinted, CodeStatusGenerated}, BatchStatusPartiallyPrinted},
		{"failed with pending", []string{CodeStatusFailed, CodeStatusGenerated}, BatchStatusPartiallyPrinted},
		{"single printed", []string{CodeStatusPrinted}, BatchStatusPrinted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveBatchStatus(tc.statuses); got != tc.want {
				t.Fatalf("derive(%v): want=%q got=%q", tc.statuses, tc.want, got)
			}
		})
	}
}
