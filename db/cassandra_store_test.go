package db

import (
	"context"
	"testing"
	"time"

	"github.com/gocql/gocql"
	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestDb(sessionMock *SessionMock) *Db {
	db := NewDbWithSession(sessionMock, "olympic")
	db.now = func() time.Time {
		return time.Date(2020, 4, 1, 10, 0, 0, 0, time.UTC)
	}
	return db
}

func TestDb_InsertOne(t *testing.T) {
	sessionMock := &SessionMock{}
	sessionMock.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	db := newTestDb(sessionMock)

	id, err := db.InsertOne(context.Background(), types.RowFields{
		Athlete: "Michael Phelps",
		Age:     23,
		Country: "United States",
		Sport:   "Swimming",
	})
	assert.NoError(t, err)

	uuid, err := gocql.ParseUUID(id)
	assert.NoError(t, err)
	assert.Equal(t, db.now().UnixNano(), uuid.Time().UnixNano())

	sessionMock.AssertCalled(t, "Execute",
		`INSERT INTO "olympic"."olympic_winners" ("id", "creation_time", "athlete", "age", "country", "sport") `+
			`VALUES (?, ?, ?, ?, ?, ?)`,
		mock.Anything,
		mock.MatchedBy(func(values []interface{}) bool {
			return len(values) == 6 && values[0] == uuid && values[2] == "Michael Phelps"
		}))
}

func TestDb_InsertOneValidation(t *testing.T) {
	sessionMock := &SessionMock{}
	db := newTestDb(sessionMock)

	_, err := db.InsertOne(context.Background(), types.RowFields{Country: "Russia", Sport: "Gymnastics"})
	assert.True(t, e.IsValidation(err))
	assert.Contains(t, err.Error(), "athlete is a required field")
	sessionMock.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestDb_InsertManyValidatesBeforeWriting(t *testing.T) {
	sessionMock := &SessionMock{}
	db := newTestDb(sessionMock)

	err := db.InsertMany(context.Background(), []types.RowFields{
		{Athlete: "A", Country: "B", Sport: "C"},
		{Athlete: "A", Country: "B"},
	})
	assert.True(t, e.IsValidation(err))
	assert.Contains(t, err.Error(), "sport is a required field")
	sessionMock.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestDb_Patch(t *testing.T) {
	id := gocql.TimeUUID()
	applied := true
	sessionMock := &SessionMock{}
	sessionMock.
		On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
		Return(NewResultMock(map[string]interface{}{"[applied]": &applied}), nil)
	db := newTestDb(sessionMock)

	patch, err := types.NewRowPatch(types.FieldGold, 5)
	assert.NoError(t, err)
	assert.NoError(t, db.Patch(context.Background(), id.String(), patch))

	sessionMock.AssertCalled(t, "ExecuteIter",
		`UPDATE "olympic"."olympic_winners" SET "gold" = ? WHERE "id" = ? IF EXISTS`,
		mock.Anything,
		[]interface{}{5, id})
}

func TestDb_PatchNotApplied(t *testing.T) {
	applied := false
	sessionMock := &SessionMock{}
	sessionMock.
		On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
		Return(NewResultMock(map[string]interface{}{"[applied]": &applied}), nil)
	db := newTestDb(sessionMock)

	patch, _ := types.NewRowPatch(types.FieldGold, 5)
	err := db.Patch(context.Background(), gocql.TimeUUID().String(), patch)
	assert.True(t, e.IsNotFound(err))
	assert.Equal(t, "Not found", err.Error())
}

func TestDb_PatchInvalidId(t *testing.T) {
	sessionMock := &SessionMock{}
	db := newTestDb(sessionMock)

	patch, _ := types.NewRowPatch(types.FieldGold, 5)
	err := db.Patch(context.Background(), "not-a-uuid", patch)
	assert.True(t, e.IsNotFound(err))
	sessionMock.AssertNotCalled(t, "ExecuteIter", mock.Anything, mock.Anything, mock.Anything)
}

func TestDb_ListAllSortsByCreationTime(t *testing.T) {
	first := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)
	firstID, secondID := gocql.UUIDFromTime(first), gocql.UUIDFromTime(second)
	athlete1, athlete2 := "Aleksey Nemov", "Alicia Coutts"
	gold := 2

	sessionMock := &SessionMock{}
	sessionMock.On("ExecuteIter", `SELECT * FROM "olympic"."olympic_winners"`, mock.Anything, mock.Anything).
		Return(NewResultMock(
			map[string]interface{}{
				"id":            &secondID,
				"creation_time": &second,
				"athlete":       &athlete2,
				"gold":          (*int)(nil),
			},
			map[string]interface{}{
				"id":            &firstID,
				"creation_time": &first,
				"athlete":       &athlete1,
				"gold":          &gold,
			},
		), nil)
	db := newTestDb(sessionMock)

	rows, err := db.ListAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []types.Row{
		{
			ID:           firstID.String(),
			CreationTime: first.UnixNano() / int64(time.Millisecond),
			Athlete:      athlete1,
			Gold:         types.IntPtr(2),
		},
		{
			ID:           secondID.String(),
			CreationTime: second.UnixNano() / int64(time.Millisecond),
			Athlete:      athlete2,
		},
	}, rows)
}
