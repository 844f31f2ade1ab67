package frames

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rankplay/pkg/errors"
)

// file is the on-disk representation of a sequence.
type file struct {
	Config
	Frames []Snapshot `json:"frames"`
}

// Read decodes a JSON frame file from r and builds a Sequence.
//
// The input must carry "node_count", "algorithm" and a non-empty "frames"
// array. Node entries outside 1..node_count are dropped; missing entries are
// left missing and renderers skip them. Read does not close r.
func Read(r io.Reader) (*Sequence, error) {
	var data file
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode frames")
	}
	for i := range data.Frames {
		for id := range data.Frames[i].Nodes {
			if id < 1 || id > data.NodeCount {
				delete(data.Frames[i].Nodes, id)
			}
		}
	}
	return New(data.Config, data.Frames)
}

// ReadFile reads a JSON frame file at path.
func ReadFile(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	seq, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// Write encodes seq as an indented JSON frame file.
func Write(seq *Sequence, w io.Writer) error {
	out := file{Config: seq.cfg, Frames: seq.frames}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
