// Package dataset loads join inputs and indexes them by key.
//
// A Source names where records come from (a JSON, YAML or CUE file, a SQLite
// table, or inline records). Load returns the records in file order; Index
// turns them into an insertion-ordered join.Mapping keyed by the canonical
// form of a key field.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/join"
	"github.com/roach88/keyjoin/internal/store"
)

// Format identifies how a source file is decoded.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCUE    Format = "cue"
	FormatSQLite Format = "sqlite"
)

// Source describes one side of a join.
type Source struct {
	// Path is the dataset file. Empty when Records is set.
	Path string

	// Format overrides detection from the file extension.
	Format Format

	// Table is the SQLite table to read (sqlite only).
	Table string

	// Where filters SQLite rows by column equality (sqlite only).
	Where ir.IRObject

	// Records are inline records, used instead of Path.
	Records []ir.IRObject
}

// String describes the source for logs and errors.
func (s Source) String() string {
	switch {
	case s.Path == "":
		return fmt.Sprintf("inline(%d records)", len(s.Records))
	case s.Table != "":
		return s.Path + "#" + s.Table
	default:
		return s.Path
	}
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("cannot detect dataset format of %q: use .json, .yaml, .cue or .db, or set the format", path)
	}
}

// Load reads every record of src, in source order.
func Load(ctx context.Context, src Source) ([]ir.IRObject, error) {
	if src.Path == "" {
		if src.Records == nil {
			return nil, fmt.Errorf("source has neither a path nor inline records")
		}
		return src.Records, nil
	}

	format := src.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(src.Path); err != nil {
			return nil, err
		}
	}

	if format != FormatSQLite && (src.Table != "" || len(src.Where) > 0) {
		return nil, fmt.Errorf("%s: table and where apply to sqlite sources only", src.Path)
	}

	switch format {
	case FormatJSON:
		return loadJSON(src.Path)
	case FormatYAML:
		return loadYAML(src.Path)
	case FormatCUE:
		return loadCUE(src.Path)
	case FormatSQLite:
		return loadSQLite(ctx, src)
	default:
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}
}

func loadSQLite(ctx context.Context, src Source) ([]ir.IRObject, error) {
	if src.Table == "" {
		return nil, fmt.Errorf("%s: sqlite sources need a table", src.Path)
	}
	st, err := store.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.ReadTable(ctx, src.Table, src.Where)
}

// Index keys records by the canonical value of keyPath.
//
// policy decides what happens to repeated keys (see join.CollisionPolicy).
// A record without the key field fails the whole index.
func Index(records []ir.IRObject, keyPath string, policy join.CollisionPolicy) (*join.Ordered[string, ir.IRObject], error) {
	// Keys are computed up front so a bad record surfaces as an error instead
	// of inside getKey, which cannot fail.
	keys := make([]string, len(records))
	for i, rec := range records {
		k, err := ir.KeyOf(rec, keyPath)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		keys[i] = k
	}

	return join.FromIterable(slices.Values(records), func(_ ir.IRObject, i int) string {
		return keys[i]
	}, policy)
}

// toRecords checks that every element of a decoded list is an object.
func toRecords(origin string, vals []ir.IRValue) ([]ir.IRObject, error) {
	records := make([]ir.IRObject, 0, len(vals))
	for i, v := range vals {
		obj, ok := v.(ir.IRObject)
		if !ok {
			return nil, fmt.Errorf("%s: record %d is %s, not an object", origin, i, ir.TypeName(v))
		}
		records = append(records, obj)
	}
	return records, nil
}

// recordList accepts either a list of records or an object holding one under
// "records".
func recordList(origin string, v ir.IRValue) ([]ir.IRObject, error) {
	switch val := v.(type) {
	case ir.IRArray:
		return toRecords(origin, val)
	case ir.IRObject:
		inner, ok := val["records"]
		if !ok {
			return nil, fmt.Errorf("%s: expected a list of records or an object with \"records\"", origin)
		}
		arr, ok := inner.(ir.IRArray)
		if !ok {
			return nil, fmt.Errorf("%s: \"records\" is %s, not a list", origin, ir.TypeName(inner))
		}
		return toRecords(origin, arr)
	default:
		return nil, fmt.Errorf("%s: expected a list of records, got %s", origin, ir.TypeName(v))
	}
}
