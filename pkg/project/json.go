package project

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownNodeKind is returned when a serialized node carries an
// unrecognized type discriminator.
var ErrUnknownNodeKind = errors.New("unknown node kind")

// fileJSON is the wire shape of a file node. Content is a pointer so
// an unread file omits the field entirely while an empty-but-read file
// round-trips as "".
type fileJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Type     Kind    `json:"type"`
	Size     int64   `json:"size"`
	Language string  `json:"language,omitempty"`
	Content  *string `json:"content,omitempty"`
}

type dirJSON struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Type     Kind              `json:"type"`
	Children []json.RawMessage `json:"children"`
}

// MarshalJSON encodes the file with its type discriminator.
func (f *File) MarshalJSON() ([]byte, error) {
	out := fileJSON{
		ID:       f.ID,
		Name:     f.Name,
		Path:     f.Path,
		Type:     KindFile,
		Size:     f.Size,
		Language: f.Language,
	}

	if f.HasContent {
		out.Content = &f.Content
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the file wire shape.
func (f *File) UnmarshalJSON(data []byte) error {
	var in fileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshal file: %w", err)
	}

	f.ID = in.ID
	f.Name = in.Name
	f.Path = in.Path
	f.Size = in.Size
	f.Language = in.Language
	f.HasContent = in.Content != nil

	if in.Content != nil {
		f.Content = *in.Content
	} else {
		f.Content = ""
	}

	return nil
}

// MarshalJSON encodes the directory and its children with type
// discriminators.
func (d *Dir) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, 0, len(d.Children))

	for _, child := range d.Children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, fmt.Errorf("marshal child %q: %w", child.NodeID(), err)
		}

		children = append(children, raw)
	}

	return json.Marshal(dirJSON{
		ID:       d.ID,
		Name:     d.Name,
		Path:     d.Path,
		Type:     KindDirectory,
		Children: children,
	})
}

// UnmarshalJSON decodes the directory wire shape.
func (d *Dir) UnmarshalJSON(data []byte) error {
	var in dirJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshal dir: %w", err)
	}

	d.ID = in.ID
	d.Name = in.Name
	d.Path = in.Path
	d.Children = make([]Node, 0, len(in.Children))

	for _, raw := range in.Children {
		child, err := UnmarshalNode(raw)
		if err != nil {
			return err
		}

		d.Children = append(d.Children, child)
	}

	return nil
}

// UnmarshalNode decodes one serialized node by its type discriminator.
func UnmarshalNode(data []byte) (Node, error) {
	var probe struct {
		Type Kind `json:"type"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("unmarshal node probe: %w", err)
	}

	switch probe.Type {
	case KindFile:
		file := &File{}
		if err := json.Unmarshal(data, file); err != nil {
			return nil, err
		}

		return file, nil
	case KindDirectory:
		dir := &Dir{}
		if err := json.Unmarshal(data, dir); err != nil {
			return nil, err
		}

		return dir, nil
	default:
		return nil, fmt.Errorf("unmarshalnode %q: %w", probe.Type, ErrUnknownNodeKind)
	}
}

// MarshalJSON encodes the tree as an object with a roots array.
func (t *Tree) MarshalJSON() ([]byte, error) {
	roots := make([]json.RawMessage, 0, len(t.Roots))

	for _, root := range t.Roots {
		raw, err := json.Marshal(root)
		if err != nil {
			return nil, fmt.Errorf("marshal root %q: %w", root.NodeID(), err)
		}

		roots = append(roots, raw)
	}

	return json.Marshal(struct {
		Roots []json.RawMessage `json:"roots"`
	}{Roots: roots})
}

// UnmarshalJSON decodes the tree wire shape.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var in struct {
		Roots []json.RawMessage `json:"roots"`
	}

	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshal tree: %w", err)
	}

	t.Roots = make([]Node, 0, len(in.Roots))

	for _, raw := range in.Roots {
		node, err := UnmarshalNode(raw)
		if err != nil {
			return err
		}

		t.Roots = append(t.Roots, node)
	}

	return nil
}
