package hydrate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_settings.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[settingsDocument](buildOptions(tc)...)
			result, err := decoder.Decode(Context{Source: tc.Source, Project: tc.Project}, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if diff := cmp.Diff(tc.Expect, result); diff != "" {
				t.Fatalf("decoded document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := NewDecoder[settingsDocument]().Decode(Context{Source: "env"}, nil)
	if err == nil || !strings.Contains(err.Error(), `source "env"`) {
		t.Fatalf("expected nil payload error naming the source, got %v", err)
	}
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"metalava": map[string]any{"hiddenPackages": "a,b"}}
	decoder := NewDecoder[settingsDocument](WithPreHook[settingsDocument](SplitLists("metalava.hiddenPackages")))
	if _, err := decoder.Decode(Context{Source: "env"}, input); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := input["metalava"].(map[string]any)["hiddenPackages"]; got != "a,b" {
		t.Fatalf("input payload mutated: %v", got)
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[settingsDocument] {
	options := []DecoderOption[settingsDocument]{}
	for _, name := range tc.Options {
		switch name {
		case "use_number":
			options = append(options, WithUseNumber[settingsDocument]())
		case "disallow_unknown":
			options = append(options, WithDisallowUnknownFields[settingsDocument]())
		}
	}
	for _, name := range tc.PreHooks {
		if name == "split_lists" {
			options = append(options, WithPreHook[settingsDocument](SplitLists("metalava.hiddenPackages", "metalava.hiddenAnnotations")))
		}
	}
	for _, name := range tc.PostHooks {
		if name == "default_version" {
			options = append(options, WithPostHook[settingsDocument](defaultVersionPostHook))
		}
	}
	if tc.CustomDecoder == "reject" {
		options = append(options, WithCustomDecoder[settingsDocument](func(Context, map[string]any) (settingsDocument, error) {
			return settingsDocument{}, errors.New("rejected")
		}))
	}
	return options
}

func defaultVersionPostHook(_ Context, doc *settingsDocument) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if doc.ProjectVersion == "" {
		doc.ProjectVersion = "unspecified"
	}
	return nil
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name          string           `json:"name"`
	Source        string           `json:"source"`
	Project       string           `json:"project"`
	Input         map[string]any   `json:"input"`
	Expect        settingsDocument `json:"expect"`
	ExpectErr     string           `json:"expectErr"`
	PreHooks      []string         `json:"preHooks"`
	PostHooks     []string         `json:"postHooks"`
	Options       []string         `json:"options"`
	CustomDecoder string           `json:"customDecoder"`
}

type settingsDocument struct {
	ProjectVersion string                     `json:"projectVersion,omitempty"`
	Metalava       map[string]any             `json:"metalava,omitempty"`
	Projects       map[string]projectDocument `json:"projects,omitempty"`
}

type projectDocument struct {
	ProjectVersion string         `json:"projectVersion,omitempty"`
	Metalava       map[string]any `json:"metalava,omitempty"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	path := filepath.Join("..", "..", "testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read hydrate fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal hydrate fixture %q: %v", name, err)
	}
	return fx
}
