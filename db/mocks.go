package db

import (
	"context"

	"github.com/gridkit/olympic-data-apis/types"
	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func (o *SessionMock) Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) error {
	args := o.Called(query, options, values)
	return args.Error(0)
}

func (o *SessionMock) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	args := o.Called(query, options, values)
	result, _ := args.Get(0).(ResultSet)
	return result, args.Error(1)
}

func (o *SessionMock) Close() {
	o.Called()
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}

// NewResultMock returns a result set mock that yields the provided rows
func NewResultMock(values ...map[string]interface{}) *ResultMock {
	result := &ResultMock{}
	if values == nil {
		values = []map[string]interface{}{}
	}
	result.On("Values").Return(values)
	return result
}

type StoreMock struct {
	mock.Mock
}

func (o *StoreMock) ListAll(ctx context.Context) ([]types.Row, error) {
	args := o.Called()
	rows, _ := args.Get(0).([]types.Row)
	return rows, args.Error(1)
}

func (o *StoreMock) InsertOne(ctx context.Context, fields types.RowFields) (string, error) {
	args := o.Called(fields)
	return args.String(0), args.Error(1)
}

func (o *StoreMock) InsertMany(ctx context.Context, items []types.RowFields) error {
	args := o.Called(items)
	return args.Error(0)
}

func (o *StoreMock) Patch(ctx context.Context, id string, patch types.RowPatch) error {
	args := o.Called(id, patch)
	return args.Error(0)
}

func (o *StoreMock) Close() error {
	return o.Called().Error(0)
}
