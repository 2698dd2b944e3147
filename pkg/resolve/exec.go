package resolve

import (
	"bytes"
	"encoding/json"
	"os/exec"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/synth"
)

// ExecFactory adapts an external resolver binary to the Context interface.
// Each context invokes the binary once per resolution: the descriptor and
// feature selection go in as JSON on stdin, a TOML lockfile comes back on
// stdout, and a nonzero exit turns stderr into a Diagnostic.
type ExecFactory struct {
	// Path is the resolver binary.
	Path string
	// Args are passed before the request on every invocation.
	Args []string
}

func (f *ExecFactory) NewContext(workerID int) (Context, error) {
	if f.Path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resolver binary not configured")
	}
	return &execContext{
		id:   uuid.NewString(),
		path: f.Path,
		args: f.Args,
	}, nil
}

// execContext is one resolver session. The session ID is exported to the
// binary so it can keep per-session scratch state across invocations on the
// same worker.
type execContext struct {
	id   string
	path string
	args []string
}

// execRequest is the JSON document written to the resolver's stdin.
type execRequest struct {
	Descriptor *synth.Descriptor `json:"descriptor"`
	Selection  FeatureSelection  `json:"selection"`
}

func (c *execContext) Resolve(d *synth.Descriptor, sel FeatureSelection) (*Lockfile, error) {
	input, err := json.Marshal(execRequest{Descriptor: d, Selection: sel})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode resolver request for %s", d.Key())
	}

	cmd := exec.Command(c.path, c.args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Env = append(cmd.Environ(), "DEPSCOPE_SESSION="+c.id)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, &Diagnostic{Text: stderr.String()}
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invoke resolver %s", c.path)
	}

	var lf Lockfile
	if err := toml.Unmarshal(stdout.Bytes(), &lf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse resolver output for %s", d.Key())
	}
	return &lf, nil
}

func (c *execContext) Close() error {
	return nil
}

var _ ContextFactory = (*ExecFactory)(nil)
