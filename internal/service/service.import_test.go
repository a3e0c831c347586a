package service

import (
	"context"
	"strings"
	"testing"

	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importCSV = `equipment_id,value,timestamp
EQ-1,1.5,2024-04-30T10:00:00Z
EQ-1,abc,2024-04-30T10:00:00Z
EQ-2,2.5,2024-04-30 11:00:00
,3,2024-04-30T10:00:00Z
EQ-3,4.5,
`

func TestImportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "admin@example.com", true, true)
	user := f.addUser(t, "user@example.com", true, false)

	t.Run("requires superuser before reading", func(t *testing.T) {
		src := strings.NewReader(importCSV)
		_, err := f.svc.ImportCSV(ctx, principal(user), src)
		assertErrorType(t, err, errors.ErrorTypeAuthorize)
		assert.Equal(t, len(importCSV), src.Len())

		_, err = f.svc.ImportCSV(ctx, nil, strings.NewReader(importCSV))
		assertErrorType(t, err, errors.ErrorTypeAuth)
		assert.Equal(t, 0, f.readings.Calls)
	})

	t.Run("counts accepted and rejected rows", func(t *testing.T) {
		out, err := f.svc.ImportCSV(ctx, principal(admin), strings.NewReader(importCSV))
		require.NoError(t, err)
		assert.Equal(t, 3, out.CountSuccess)
		assert.Equal(t, 2, out.CountFail)
		assert.Equal(t, 3, f.readings.Len())
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := f.svc.ImportCSV(ctx, principal(admin), strings.NewReader("foo,bar\n1,2\n"))
		assertErrorType(t, err, errors.ErrorTypeMalformedFile)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := f.svc.ImportCSV(ctx, principal(admin), strings.NewReader(""))
		assertErrorType(t, err, errors.ErrorTypeMalformedFile)
	})

	t.Run("store failure inserts nothing", func(t *testing.T) {
		before := f.readings.Len()
		f.readings.Err = errors.NewDatabaseError("boom", nil)
		_, err := f.svc.ImportCSV(ctx, principal(admin), strings.NewReader(importCSV))
		assertErrorType(t, err, errors.ErrorTypeDatabase)
		f.readings.Err = nil
		assert.Equal(t, before, f.readings.Len())
	})
}
