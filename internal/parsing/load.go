package parsing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"
)

// Loader reads definition and record documents from disk. It retains every
// parsed file so callers can render diagnostics with the offending source
// attached. Loading is fail-fast: the first error anywhere aborts the scan
// and no partial result is returned.
type Loader struct {
	parser *hclparse.Parser
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		parser: hclparse.NewParser(),
		logger: logger,
	}
}

// Files exposes the parsed sources for diagnostic rendering.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// LoadDefinitions loads one definition document per record kind from dir.
// The kind name is the file stem; only .hcl files are considered.
func (l *Loader) LoadDefinitions(dir string) (*Store, hcl.Diagnostics) {
	paths, diags := listDocuments(dir)
	if diags.HasErrors() {
		return nil, diags
	}

	defs := make(map[string][]Definition, len(paths))
	for _, path := range paths {
		kind := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		file, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, diags
		}
		parsed, diags := parseDefinitionFile(kind, file)
		if diags.HasErrors() {
			return nil, diags
		}

		l.logger.Debug("loaded definitions",
			zap.String("kind", kind),
			zap.Int("versions", len(parsed)))
		defs[kind] = parsed
	}

	return NewStore(defs), nil
}

// LoadRecords loads every record document directly under dir (no recursion)
// and returns the records as one flat, order-preserving list.
func (l *Loader) LoadRecords(dir string, store *Store) ([]Record, hcl.Diagnostics) {
	paths, diags := listDocuments(dir)
	if diags.HasErrors() {
		return nil, diags
	}

	var records []Record
	for _, path := range paths {
		file, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, diags
		}
		recs, diags := parseRecordFile(file, store)
		if diags.HasErrors() {
			return nil, diags
		}

		l.logger.Debug("loaded records",
			zap.String("file", path),
			zap.Int("count", len(recs)))
		records = append(records, recs...)
	}

	return records, nil
}

// listDocuments returns the .hcl files directly under dir, in directory
// enumeration order.
func listDocuments(dir string) ([]string, hcl.Diagnostics) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Could not read directory %q", dir),
			Detail:   err.Error(),
		}}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".hcl" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
