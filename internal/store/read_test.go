package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyjoin/internal/ir"
)

func TestReadTable_AllRowsInRowidOrder(t *testing.T) {
	path := createTestDB(t,
		customersSchema,
		`INSERT INTO customers (id, name, region, note) VALUES (3, 'carol', 'eu', NULL)`,
		`INSERT INTO customers (id, name, region, note) VALUES (1, 'alice', 'us', X'6869')`,
		`INSERT INTO customers (id, name, region, note) VALUES (2, 'bob', 'eu', NULL)`,
	)
	s := openTestStore(t, path)

	recs, err := s.ReadTable(context.Background(), "customers", nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, ir.IRObject{
		"id":     ir.IRInt(1),
		"name":   ir.IRString("alice"),
		"region": ir.IRString("us"),
		"note":   ir.IRString("hi"),
	}, recs[0])
	assert.Equal(t, ir.IRInt(2), recs[1]["id"])
	assert.Equal(t, ir.IRNull{}, recs[2]["note"])
}

func TestReadTable_Where(t *testing.T) {
	path := createTestDB(t,
		customersSchema,
		`INSERT INTO customers (id, name, region) VALUES (1, 'alice', 'us')`,
		`INSERT INTO customers (id, name, region) VALUES (2, 'bob', 'eu')`,
		`INSERT INTO customers (id, name, region) VALUES (3, 'carol', NULL)`,
	)
	s := openTestStore(t, path)
	ctx := context.Background()

	recs, err := s.ReadTable(ctx, "customers", ir.IRObject{"region": ir.IRString("eu")})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, ir.IRString("bob"), recs[0]["name"])

	recs, err = s.ReadTable(ctx, "customers", ir.IRObject{"region": ir.IRNull{}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, ir.IRString("carol"), recs[0]["name"])

	recs, err = s.ReadTable(ctx, "customers", ir.IRObject{"region": ir.IRString("us"), "id": ir.IRInt(2)})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadTable_Timestamps(t *testing.T) {
	path := createTestDB(t,
		`CREATE TABLE visits (id INTEGER, day DATE, at TIMESTAMP)`,
		`INSERT INTO visits VALUES (1, '2024-01-02', '2024-01-02 10:30:00')`,
	)
	s := openTestStore(t, path)

	recs, err := s.ReadTable(context.Background(), "visits", nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, ir.IRString("2024-01-02"), recs[0]["day"])
	assert.Equal(t, ir.IRString("2024-01-02T10:30:00Z"), recs[0]["at"])
}

func TestReadTable_MissingTable(t *testing.T) {
	s := openTestStore(t, createTestDB(t, customersSchema))

	_, err := s.ReadTable(context.Background(), "orders", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `table "orders" not found`)
}

func TestReadTable_RejectsReal(t *testing.T) {
	path := createTestDB(t,
		`CREATE TABLE prices (sku TEXT, amount REAL)`,
		`INSERT INTO prices VALUES ('a', 1.5)`,
	)
	s := openTestStore(t, path)

	_, err := s.ReadTable(context.Background(), "prices", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "amount"`)
}

func TestSelectSQL(t *testing.T) {
	query, args, err := selectSQL(`we"ird`, ir.IRObject{
		"b": ir.IRInt(2),
		"a": ir.IRString("x"),
		"c": ir.IRNull{},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "we""ird" WHERE "a" = ? AND "b" = ? AND "c" IS NULL ORDER BY rowid ASC`, query)
	assert.Equal(t, []any{"x", int64(2)}, args)

	_, _, err = selectSQL("t", ir.IRObject{"a": ir.IRArray{}})
	assert.ErrorContains(t, err, "cannot compare")
}
