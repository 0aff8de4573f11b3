package metalava

import "testing"

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"v2": FormatV2, "V3": FormatV3, "4": FormatV4, " v4 ": FormatV4}
	for input, want := range cases {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	for _, input := range []string{"", "v1", "v5", "latest"} {
		if _, err := ParseFormat(input); err == nil {
			t.Fatalf("ParseFormat(%q) expected error", input)
		}
	}
	if FormatV3.Flag() != "v3" {
		t.Fatalf("unexpected format flag %q", FormatV3.Flag())
	}
}

func TestParseSignature(t *testing.T) {
	cases := map[string]Signature{"api": SignatureAPI, "API": SignatureAPI, "removed": SignatureRemoved, "removed_api": SignatureRemoved}
	for input, want := range cases {
		got, err := ParseSignature(input)
		if err != nil || got != want {
			t.Fatalf("ParseSignature(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseSignature("internal"); err == nil {
		t.Fatalf("expected error")
	}
	if SignatureAPI.Flag() != "--api" || SignatureRemoved.Flag() != "--removed-api" {
		t.Fatalf("unexpected signature flags")
	}
}

func TestParseDocumentation(t *testing.T) {
	for _, level := range Documentations() {
		got, err := ParseDocumentation(" " + string(level) + " ")
		if err != nil || got != level {
			t.Fatalf("ParseDocumentation(%q) = %v, %v", level, got, err)
		}
	}
	if _, err := ParseDocumentation("hidden"); err == nil {
		t.Fatalf("expected error")
	}
	if DocumentationPackage.Flag() != "--package" {
		t.Fatalf("unexpected documentation flag %q", DocumentationPackage.Flag())
	}
}

func TestJavaVersion(t *testing.T) {
	cases := map[string]JavaVersion{"1.8": Java8, "8": Java8, "11": Java11, "VERSION_1_8": Java8, "VERSION_17": Java17}
	for input, want := range cases {
		got, err := ParseJavaVersion(input)
		if err != nil || got != want {
			t.Fatalf("ParseJavaVersion(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	for _, input := range []string{"", "x", "0", "-3"} {
		if _, err := ParseJavaVersion(input); err == nil {
			t.Fatalf("ParseJavaVersion(%q) expected error", input)
		}
	}
	if Java8.String() != "1.8" || Java21.String() != "21" {
		t.Fatalf("unexpected rendering %s %s", Java8, Java21)
	}
}
