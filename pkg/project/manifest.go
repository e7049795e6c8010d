package project

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
	"github.com/Sumatoshi-tech/codeloom/pkg/textutil"
)

// ManifestSchemaFS contains the embedded upload manifest JSON schema.
//
//go:embed manifest_schema.json
var ManifestSchemaFS embed.FS

// ErrInvalidManifest is returned when a manifest fails schema
// validation.
var ErrInvalidManifest = errors.New("invalid manifest")

// ManifestFile is one uploaded file as sent by the browser
// collaborator. Content is optional; absent content means the file was
// not text-decodable on the sending side.
type ManifestFile struct {
	Path    string  `json:"path"`
	Size    int64   `json:"size"`
	Content *string `json:"content,omitempty"`
}

// Manifest is the upload shape exchanged with the browser collaborator.
type Manifest struct {
	Files []ManifestFile `json:"files"`
}

// ManifestSchema returns the embedded schema bytes.
func ManifestSchema() ([]byte, error) {
	data, err := ManifestSchemaFS.ReadFile("manifest_schema.json")
	if err != nil {
		return nil, fmt.Errorf("manifest schema: %w", err)
	}

	return data, nil
}

// ValidateManifest checks data against the embedded schema and returns
// one human-readable line per violation. An empty slice means valid.
// The error covers schema machinery failures, including undecodable
// JSON.
func ValidateManifest(data []byte) ([]string, error) {
	schema, err := ManifestSchema()
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		issues = append(issues, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return issues, nil
}

// ParseManifest validates and decodes an upload manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	issues, err := ValidateManifest(data)
	if err != nil {
		return nil, err
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("parsemanifest: %s: %w", issues[0], ErrInvalidManifest)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsemanifest: %w", err)
	}

	return &manifest, nil
}

// EntriesFromManifest converts manifest files into intake entries,
// applying the same ignore, size-cap, and text gates as the directory
// walk. The progress callback fires once per surviving file.
func EntriesFromManifest(m *Manifest, opts IntakeOptions) []Entry {
	opts = opts.withDefaults()

	kept := make([]ManifestFile, 0, len(m.Files))

	for _, mf := range m.Files {
		if !IgnoredPath(mf.Path, opts.IgnoreDirs) {
			kept = append(kept, mf)
		}
	}

	entries := make([]Entry, 0, len(kept))

	for i, mf := range kept {
		size := mf.Size
		if size == 0 && mf.Content != nil {
			size = int64(len(*mf.Content))
		}

		entry := Entry{Path: mf.Path, Size: size}

		if mf.Content != nil && size <= opts.MaxFileSize && lang.IsTextFile(mf.Path) &&
			!textutil.IsBinary([]byte(*mf.Content)) {
			entry.Content = *mf.Content
			entry.HasContent = true
		}

		entries = append(entries, entry)

		if opts.Progress != nil {
			opts.Progress(mf.Path, i+1, len(kept))
		}
	}

	return entries
}
