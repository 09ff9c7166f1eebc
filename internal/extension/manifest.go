package extension

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// manifestFileName is the well-known manifest name inside each extension
// directory.
const manifestFileName = "manifest.hcl"

// manifestFile is the HCL schema for an extension manifest.
type manifestFile struct {
	Extension *extensionBlock `hcl:"extension,block"`
}

type extensionBlock struct {
	Name     string          `hcl:"name,label"`
	Commands []*commandBlock `hcl:"command,block"`
}

type commandBlock struct {
	Name     string         `hcl:"name,label"`
	OnInvoke string         `hcl:"on_invoke"`
	Help     hcl.Expression `hcl:"help,optional"`
	Hidden   hcl.Expression `hcl:"hidden,optional"`
}

// manifest is the evaluated, format-agnostic form of a manifest file.
type manifest struct {
	Name     string
	Commands []manifestCommand
}

type manifestCommand struct {
	Name     string
	OnInvoke string
	Help     string
	Hidden   bool
}

// parseManifest reads and evaluates the manifest for one extension directory.
// The file is re-read on every call so an unload/load cycle picks up edits
// without a process restart.
func parseManifest(dir, name string) (*manifest, error) {
	path := filepath.Join(dir, name, manifestFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("extension %q has no manifest: %w", name, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	var raw manifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}

	if raw.Extension == nil {
		return nil, fmt.Errorf("manifest %s is missing the extension block", path)
	}
	if raw.Extension.Name != name {
		return nil, fmt.Errorf("manifest %s declares extension %q, expected %q", path, raw.Extension.Name, name)
	}
	if len(raw.Extension.Commands) == 0 {
		return nil, fmt.Errorf("extension %q declares no commands", name)
	}

	m := &manifest{Name: raw.Extension.Name}
	for _, block := range raw.Extension.Commands {
		if block.OnInvoke == "" {
			return nil, fmt.Errorf("extension %q: command %q has no on_invoke handler", name, block.Name)
		}

		help, err := evalString(block.Help)
		if err != nil {
			return nil, fmt.Errorf("extension %q: command %q: help: %w", name, block.Name, err)
		}
		hidden, err := evalBool(block.Hidden)
		if err != nil {
			return nil, fmt.Errorf("extension %q: command %q: hidden: %w", name, block.Name, err)
		}

		m.Commands = append(m.Commands, manifestCommand{
			Name:     block.Name,
			OnInvoke: block.OnInvoke,
			Help:     help,
			Hidden:   hidden,
		})
	}
	return m, nil
}

// evalString evaluates an optional string attribute expression.
func evalString(expr hcl.Expression) (string, error) {
	val, err := evalAttr(expr)
	if err != nil || val == cty.NilVal {
		return "", err
	}
	if val.Type() != cty.String {
		return "", fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
	}
	return val.AsString(), nil
}

// evalBool evaluates an optional bool attribute expression.
func evalBool(expr hcl.Expression) (bool, error) {
	val, err := evalAttr(expr)
	if err != nil || val == cty.NilVal {
		return false, err
	}
	if val.Type() != cty.Bool {
		return false, fmt.Errorf("expected a bool, got %s", val.Type().FriendlyName())
	}
	return val.True(), nil
}

// evalAttr evaluates an optional attribute. Manifests are static documents;
// expressions are evaluated without variables, exactly like manifest defaults.
func evalAttr(expr hcl.Expression) (cty.Value, error) {
	if expr == nil {
		return cty.NilVal, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if val.IsNull() {
		return cty.NilVal, nil
	}
	return val, nil
}
