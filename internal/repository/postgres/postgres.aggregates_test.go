package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/itsatony/sensorhub/internal/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestHourlyAveragesSQL(t *testing.T) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := begin.Add(24 * time.Hour)

	t.Run("all equipment", func(t *testing.T) {
		query, args := hourlyAveragesSQL(BucketDateTrunc, begin, end, nil)
		assert.Equal(t,
			`SELECT equipment_id, date_trunc('hour', "timestamp") AS hour_bucket, AVG(value) AS avg_value `+
				`FROM sensor_data WHERE "timestamp" > $1 AND "timestamp" <= $2 `+
				`GROUP BY equipment_id, hour_bucket ORDER BY equipment_id, hour_bucket`,
			squash(query))
		assert.Equal(t, []interface{}{begin, end}, args)
	})

	t.Run("filtered with time_bucket", func(t *testing.T) {
		query, args := hourlyAveragesSQL(BucketTimeBucket, begin, end, []string{"A", "B"})
		assert.Contains(t, squash(query), `time_bucket(INTERVAL '1 hour', "timestamp") AS hour_bucket`)
		assert.Contains(t, squash(query), `AND equipment_id = ANY($3)`)
		require.Len(t, args, 3)
		assert.Equal(t, pq.Array([]string{"A", "B"}), args[2])
	})
}

func TestIntervalSQL(t *testing.T) {
	q := models.IntervalQuery{
		Begin:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		EquipmentIDs: []string{"EQ-1"},
		Skip:         10,
		Limit:        5,
	}

	page, pageArgs := intervalAveragesSQL(q)
	assert.Equal(t,
		`SELECT equipment_id, AVG(value) AS avg_value FROM sensor_data `+
			`WHERE "timestamp" > $1 AND "timestamp" <= $2 AND equipment_id = ANY($3) `+
			`GROUP BY equipment_id ORDER BY equipment_id OFFSET $4 LIMIT $5`,
		squash(page))
	assert.Equal(t, []interface{}{q.Begin, q.End, pq.Array(q.EquipmentIDs), 10, 5}, pageArgs)

	count, countArgs := intervalCountSQL(q)
	assert.Equal(t,
		`SELECT COUNT(DISTINCT equipment_id) FROM sensor_data `+
			`WHERE "timestamp" > $1 AND "timestamp" <= $2 AND equipment_id = ANY($3)`,
		squash(count))
	assert.Equal(t, pageArgs[:3], countArgs, "count uses the same filter as the page")
}

func TestWindowFilterNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	begin := time.Date(2024, 1, 1, 1, 0, 0, 0, loc)
	q := windowFilter(begin, begin.Add(time.Hour), nil)
	require.Len(t, q.args, 2)
	assert.Equal(t, time.UTC, q.args[0].(time.Time).Location())
	assert.Len(t, q.conds, 2)
}
