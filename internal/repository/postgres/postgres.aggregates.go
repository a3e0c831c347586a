package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/itsatony/sensorhub/internal/models"
	"github.com/lib/pq"
)

// Hour bucketing expressions over sensor_data."timestamp".
const (
	BucketDateTrunc  = `date_trunc('hour', "timestamp")`
	BucketTimeBucket = `time_bucket(INTERVAL '1 hour', "timestamp")`
)

// aggregateQuery accumulates WHERE conditions and their positional arguments.
type aggregateQuery struct {
	conds []string
	args  []interface{}
}

// arg appends v and returns its placeholder.
func (q *aggregateQuery) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *aggregateQuery) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.conds, " AND ")
}

// windowFilter restricts to "timestamp" in (begin, end] and, when ids is non-empty, to those equipment ids.
func windowFilter(begin, end time.Time, ids []string) *aggregateQuery {
	q := &aggregateQuery{}
	q.conds = append(q.conds,
		`"timestamp" > `+q.arg(begin.UTC()),
		`"timestamp" <= `+q.arg(end.UTC()),
	)
	if len(ids) > 0 {
		q.conds = append(q.conds, "equipment_id = ANY("+q.arg(pq.Array(ids))+")")
	}
	return q
}

func hourlyAveragesSQL(bucket string, begin, end time.Time, ids []string) (string, []interface{}) {
	q := windowFilter(begin, end, ids)
	query := fmt.Sprintf(`
		SELECT equipment_id, %s AS hour_bucket, AVG(value) AS avg_value
		FROM sensor_data
		%s
		GROUP BY equipment_id, hour_bucket
		ORDER BY equipment_id, hour_bucket`, bucket, q.where())
	return query, q.args
}

func intervalAveragesSQL(iq models.IntervalQuery) (string, []interface{}) {
	q := windowFilter(iq.Begin, iq.End, iq.EquipmentIDs)
	query := fmt.Sprintf(`
		SELECT equipment_id, AVG(value) AS avg_value
		FROM sensor_data
		%s
		GROUP BY equipment_id
		ORDER BY equipment_id
		OFFSET %s LIMIT %s`, q.where(), q.arg(iq.Skip), q.arg(iq.Limit))
	return query, q.args
}

func intervalCountSQL(iq models.IntervalQuery) (string, []interface{}) {
	q := windowFilter(iq.Begin, iq.End, iq.EquipmentIDs)
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT equipment_id)
		FROM sensor_data
		%s`, q.where())
	return query, q.args
}
