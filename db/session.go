package db

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/gocql/gocql"
)

type QueryOptions struct {
	Consistency       gocql.Consistency
	SerialConsistency gocql.SerialConsistency
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency:       gocql.LocalQuorum,
		SerialConsistency: gocql.LocalSerial,
	}
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

func (q *QueryOptions) WithSerialConsistency(serialConsistency gocql.SerialConsistency) *QueryOptions {
	q.SerialConsistency = serialConsistency
	return q
}

type Session interface {
	// Execute executes a statement without returning row results
	Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) error

	// ExecuteIter executes a statement and returns the result set
	ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error)

	Close()
}

type ResultSet interface {
	Values() []map[string]interface{}
}

type goCqlResultIterator struct {
	values []map[string]interface{}
}

func (r *goCqlResultIterator) Values() []map[string]interface{} {
	return r.values
}

func newResultIterator(iter *gocql.Iter) (*goCqlResultIterator, error) {
	columns := iter.Columns()
	scanner := iter.Scanner()

	items := make([]map[string]interface{}, 0)

	for scanner.Next() {
		row, err := mapScan(scanner, columns)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		items = append(items, row)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &goCqlResultIterator{values: items}, nil
}

type GoCqlSession struct {
	ref *gocql.Session
}

func (session *GoCqlSession) Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) error {
	_, err := session.ExecuteIter(ctx, query, options, values...)
	return err
}

func (session *GoCqlSession) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	q := session.ref.Query(query, values...).WithContext(ctx)

	// Avoid reusing metadata from the prepared statement
	// Otherwise, we will not get the [applied] column (https://github.com/gocql/gocql/issues/612)
	q.NoSkipMetadata()

	if options != nil {
		q.Consistency(options.Consistency)

		if options.SerialConsistency != gocql.Serial && options.SerialConsistency != gocql.LocalSerial {
			return nil, errors.New("invalid serial consistency")
		}

		q.SerialConsistency(options.SerialConsistency)
	}
	return newResultIterator(q.Iter())
}

func (session *GoCqlSession) Close() {
	session.ref.Close()
}

func mapScan(scanner gocql.Scanner, columns []gocql.ColumnInfo) (map[string]interface{}, error) {
	values := make([]interface{}, len(columns))

	for i := range values {
		typeInfo := columns[i].TypeInfo
		switch typeInfo.Type() {
		case gocql.TypeVarchar, gocql.TypeAscii, gocql.TypeText:
			values[i] = new(*string)
		case gocql.TypeBoolean:
			values[i] = new(*bool)
		case gocql.TypeFloat:
			values[i] = new(*float32)
		case gocql.TypeDouble:
			values[i] = new(*float64)
		case gocql.TypeInt:
			values[i] = new(*int)
		case gocql.TypeBigInt, gocql.TypeCounter:
			values[i] = new(*int64)
		case gocql.TypeTimestamp:
			values[i] = new(*time.Time)
		case gocql.TypeTimeUUID, gocql.TypeUUID:
			values[i] = new(*gocql.UUID)
		default:
			return nil, fmt.Errorf("support for CQL type not found: %s", typeInfo.Type().String())
		}
	}

	if err := scanner.Scan(values...); err != nil {
		return nil, err
	}

	mapped := make(map[string]interface{}, len(values))
	for i, column := range columns {
		mapped[column.Name] = reflect.Indirect(reflect.ValueOf(values[i])).Interface()
	}

	return mapped, nil
}
