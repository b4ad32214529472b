package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/gocty"
)

// StepConfig is the format-agnostic representation of one `step` block.
type StepConfig struct {
	// Type selects the ActionConstructor used to build this step's
	// task.Action (the block's first label, e.g. "print" or "http_get").
	Type string
	// Name identifies the step within the pipeline (the block's second
	// label). DependsOn entries refer to steps by this name.
	Name string
	// DependsOn lists the names of steps that must run before this one.
	DependsOn []string
	// Tags lists tag names attached to the resulting task.
	Tags []string
	// Priority is the resulting task's priority tie-breaker among tasks
	// that become runnable in the same pool level (see task.SetPriority).
	// Zero (the default) leaves the level's own depth-based priority
	// untouched.
	Priority int
	// Body holds whatever attributes remain after type/name/depends_on/
	// tags/priority are extracted, for the step type's own constructor to
	// decode.
	Body hcl.Body
}

type rawStep struct {
	Type      string         `hcl:"type,label"`
	Name      string         `hcl:"name,label"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Tags      []string       `hcl:"tags,optional"`
	Priority  hcl.Expression `hcl:"priority,optional"`
	Remain    hcl.Body       `hcl:",remain"`
}

// priorityOf evaluates a step's optional priority expression to an int. An
// absent attribute yields 0, whether it arrives as a nil expression or as
// the null-valued expression gohcl assigns to a missing optional field.
func priorityOf(expr hcl.Expression) (int, error) {
	if expr == nil {
		return 0, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	if val.IsNull() {
		return 0, nil
	}
	var priority int
	if err := gocty.FromCtyValue(val, &priority); err != nil {
		return 0, fmt.Errorf("pipeline: decoding priority: %w", err)
	}
	return priority, nil
}

type fileRoot struct {
	Steps  []*rawStep `hcl:"step,block"`
	Remain hcl.Body   `hcl:",remain"`
}

// Load parses path (a single HCL file or a directory of .hcl files) into
// an ordered list of StepConfig.
func Load(path string) ([]*StepConfig, error) {
	files, err := discoverFiles(path)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	var steps []*StepConfig

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("pipeline: parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("pipeline: decoding %s: %w", file, diags)
		}

		for _, rs := range root.Steps {
			priority, err := priorityOf(rs.Priority)
			if err != nil {
				return nil, fmt.Errorf("pipeline: step %q: %w", rs.Name, err)
			}
			steps = append(steps, &StepConfig{
				Type:      rs.Type,
				Name:      rs.Name,
				DependsOn: rs.DependsOn,
				Tags:      rs.Tags,
				Priority:  priority,
				Body:      rs.Remain,
			})
		}
	}

	return steps, nil
}

func discoverFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading directory %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".hcl" {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	return files, nil
}
