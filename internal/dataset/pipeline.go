package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PipelineType identifies which catalog family a pipeline bundle belongs
// to. The set is closed; each type maps to a config schema descriptor at
// definition time rather than through dynamic lookup.
type PipelineType string

const (
	PipelineTypeBIDSification PipelineType = "bidsification"
	PipelineTypeProcessing    PipelineType = "processing"
	PipelineTypeExtraction    PipelineType = "extraction"
)

// pipelineSchema describes where a pipeline type's configuration declares
// its steps.
type pipelineSchema struct {
	stepsField  string
	nameField   string
	defaultStep string
}

var pipelineSchemas = map[PipelineType]pipelineSchema{
	PipelineTypeBIDSification: {stepsField: "STEPS", nameField: "NAME", defaultStep: "default"},
	PipelineTypeProcessing:    {stepsField: "STEPS", nameField: "NAME", defaultStep: "default"},
	PipelineTypeExtraction:    {stepsField: "STEPS", nameField: "NAME", defaultStep: "default"},
}

// pipelineTypes fixes the enumeration order used for listings.
var pipelineTypes = []PipelineType{
	PipelineTypeBIDSification,
	PipelineTypeProcessing,
	PipelineTypeExtraction,
}

// ParsePipelineType validates a pipeline type string against the closed
// set.
func ParsePipelineType(s string) (PipelineType, error) {
	typ := PipelineType(s)
	if _, ok := pipelineSchemas[typ]; !ok {
		return "", newError(KindUnknownPipelineType, "unknown pipeline type: %q", s)
	}
	return typ, nil
}

// PipelineInfo identifies one installed pipeline bundle.
type PipelineInfo struct {
	Type    PipelineType `json:"type"`
	Name    string       `json:"name"`
	Version string       `json:"version"`
}

// PipelineRef is a fully resolved pipeline identity as echoed back in tool
// responses.
type PipelineRef struct {
	Type    PipelineType `json:"type"`
	Name    string       `json:"name"`
	Version string       `json:"version"`
	Step    string       `json:"step,omitempty"`
}

// ListPipelines enumerates the installed pipeline bundles under
// pipelines/<type>/<name>-<version>/. Bundle directory names split at the
// last dash, per the nipoppy install convention. The result is sorted by
// (type, name, version); a dataset with no pipelines directory yields an
// empty catalog. The catalog is re-read on every call so installs and
// removals between calls are observed.
func ListPipelines(root string) ([]PipelineInfo, error) {
	var pipelines []PipelineInfo
	for _, typ := range pipelineTypes {
		typeDir := filepath.Join(root, PipelinesDirName, string(typ))
		entries, err := os.ReadDir(typeDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fromOSError(err, typeDir)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name, version, ok := splitBundleName(entry.Name())
			if !ok {
				continue
			}
			pipelines = append(pipelines, PipelineInfo{Type: typ, Name: name, Version: version})
		}
	}
	sort.Slice(pipelines, func(i, j int) bool {
		a, b := pipelines[i], pipelines[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Version < b.Version
	})
	return pipelines, nil
}

func splitBundleName(dir string) (name, version string, ok bool) {
	i := strings.LastIndex(dir, "-")
	if i <= 0 || i == len(dir)-1 {
		return "", "", false
	}
	return dir[:i], dir[i+1:], true
}

// PipelineSteps returns the step names a pipeline's configuration declares,
// in declaration order. A configuration without a steps list has a single
// implicit step.
func PipelineSteps(root string, typ PipelineType, name, version string) ([]string, error) {
	schema, ok := pipelineSchemas[typ]
	if !ok {
		return nil, newError(KindUnknownPipelineType, "unknown pipeline type: %q", typ)
	}
	config, err := ReadJSON(PipelineConfigPath(root, typ, name, version))
	if err != nil {
		return nil, err
	}
	raw, ok := config[schema.stepsField]
	if !ok {
		return []string{schema.defaultStep}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, newError(KindMalformed, "pipeline %s-%s: %s is not a list", name, version, schema.stepsField)
	}
	steps := make([]string, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if stepName, ok := entry[schema.nameField].(string); ok && stepName != "" {
			steps = append(steps, stepName)
		}
	}
	if len(steps) == 0 {
		return []string{schema.defaultStep}, nil
	}
	return steps, nil
}

// ResolveVersion validates that a pipeline named name is installed and
// resolves its version. When version is empty the lexicographically
// greatest installed version wins; this is deliberately NOT
// semantic-version ordering ("2.0" beats "10.0"), matching the catalog's
// historical behavior. Resolution re-enumerates the catalog on every call.
func ResolveVersion(root, name, version string) (PipelineType, string, error) {
	pipelines, err := ListPipelines(root)
	if err != nil {
		return "", "", err
	}
	var typ PipelineType
	var available []string
	for _, p := range pipelines {
		if p.Name != name {
			continue
		}
		typ = p.Type
		available = append(available, p.Version)
	}
	if len(available) == 0 {
		return "", "", newError(KindPipelineNotFound, "pipeline not found: %q", name)
	}
	if version != "" {
		for _, v := range available {
			if v == version {
				return typ, version, nil
			}
		}
		return "", "", newError(KindVersionNotFound,
			"version %q of pipeline %q not found (available: %s)", version, name, strings.Join(available, ", "))
	}
	latest := available[0]
	for _, v := range available[1:] {
		if v > latest {
			latest = v
		}
	}
	return typ, latest, nil
}
