package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/join"
)

func writeJob(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJob_CUE(t *testing.T) {
	job, err := LoadJob("testdata/left.cue")
	require.NoError(t, err)

	assert.Equal(t, "left", job.Name)
	assert.Equal(t, join.Left, job.Type)
	assert.False(t, job.Negate)
	assert.Equal(t, ShapeMerge, job.Shape)
	assert.Equal(t, filepath.Join("testdata", "customers.yaml"), job.Left.Path)
	assert.Equal(t, "id", job.Left.Key)
	assert.Equal(t, "customer_id", job.Right.Key)
}

func TestLoadJob_YAML(t *testing.T) {
	job, err := LoadJob("testdata/complement.yaml")
	require.NoError(t, err)

	assert.Equal(t, "unmatched", job.Name)
	assert.Equal(t, join.Inner, job.Type)
	assert.True(t, job.Negate)
	assert.True(t, job.Discarded)
	assert.Equal(t, join.Strict, job.Policy)
}

func TestLoadJob_DefaultsToInner(t *testing.T) {
	path := writeJob(t, "j.yaml", "job:\n  left: {path: a.json, key: id}\n  right: {path: b.json, key: id}\n")
	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, join.Inner, job.Type)
	assert.Equal(t, "j", job.Name)
}

func TestLoadJob_CUEConstraints(t *testing.T) {
	path := writeJob(t, "j.cue", `
#Side: {path: string, key: string | *"id", table?: string, where?: {...}}

job: {
	type:         "left-outer"
	on_duplicate: "ignore"
	left:  #Side & {path: "/data/a.json"}
	right: #Side & {path: "shop.db", table: "orders", key: "customer_id", where: {status: "open", shard: 3}}
}
`)
	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, join.LeftOuter, job.Type)
	assert.Equal(t, join.Ignore, job.Policy)
	assert.Equal(t, "/data/a.json", job.Left.Path)
	assert.Equal(t, "id", job.Left.Key)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "shop.db"), job.Right.Path)
	assert.Equal(t, "orders", job.Right.Table)
	assert.Equal(t, ir.IRObject{"status": ir.IRString("open"), "shard": ir.IRInt(3)}, job.Right.Where)
}

func TestLoadJob_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unsupported", "j.json", `{}`, "unsupported job file"},
		{"cue syntax", "j.cue", `job: {`, "cue"},
		{"cue no job", "j.cue", `other: 1`, "job is required"},
		{"cue incomplete", "j.cue", `job: {type: string}`, "cue"},
		{"cue unknown field", "j.cue", `job: {colour: "red"}`, "unknown field"},
		{"cue bad type", "j.cue", `job: {type: "sideways", left: {path: "a", key: "id"}, right: {path: "b", key: "id"}}`, "INVALID_JOIN_TYPE"},
		{"yaml unknown field", "j.yaml", "job:\n  colour: red\n", "failed to parse YAML"},
		{"yaml no job", "j.yaml", "other: 1\n", "job is required"},
		{"type and not", "j.yaml", "job:\n  type: left\n  not: left\n", "mutually exclusive"},
		{"bad not", "j.yaml", "job:\n  not: nope\n", "not:"},
		{"bad policy", "j.yaml", "job:\n  on_duplicate: merge\n", "on_duplicate"},
		{"bad shape", "j.yaml", "job:\n  shape: flat\n", "shape"},
		{"no left", "j.yaml", "job:\n  right: {path: b, key: id}\n", "left side is required"},
		{"no right key", "j.yaml", "job:\n  left: {path: a, key: id}\n  right: {path: b}\n", "right.key"},
		{"float where", "j.yaml", "job:\n  left: {path: a, key: id, where: {x: 1.5}}\n  right: {path: b, key: id}\n", "floats are not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJob(writeJob(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadJob_UnknownTypeWrapsJoinError(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		field   string
	}{
		{"cue type", "j.cue", `job: {type: "sideways", left: {path: "a", key: "id"}, right: {path: "b", key: "id"}}`, "type"},
		{"yaml not", "j.yaml", "job:\n  not: sideways\n  left: {path: a, key: id}\n  right: {path: b, key: id}\n", "not"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJob(writeJob(t, tt.file, tt.content))
			require.Error(t, err)

			var jobErr *JobError
			require.True(t, errors.As(err, &jobErr))
			assert.Equal(t, tt.field, jobErr.Field)
			assert.True(t, join.IsInvalidJoinType(err))
		})
	}
}

func TestLoadJob_CUEErrorHasPosition(t *testing.T) {
	path := writeJob(t, "j.cue", "job: {\n\tshape: \"flat\"\n\tleft: {path: \"a\", key: \"id\"}\n\tright: {path: \"b\", key: \"id\"}\n}\n")
	_, err := LoadJob(path)

	var jobErr *JobError
	require.True(t, errors.As(err, &jobErr))
	assert.Equal(t, "shape", jobErr.Field)
	assert.True(t, jobErr.Pos.IsValid())
	assert.Equal(t, 2, jobErr.Pos.Line())
}

func TestLoadJob_MissingFile(t *testing.T) {
	_, err := LoadJob("testdata/nope.cue")
	assert.ErrorContains(t, err, "failed to read job file")
}
