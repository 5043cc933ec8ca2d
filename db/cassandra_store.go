package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gocql/gocql"
	"github.com/gridkit/olympic-data-apis/config"
	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/types"
)

// Db is the Cassandra backed Store
type Db struct {
	session  Session
	keyspace string
	naming   config.NamingConvention
	now      func() time.Time
}

// NewDb gets a pointer to a Db connected to the given hosts
func NewDb(username string, password string, keyspace string, hosts ...string) (*Db, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.PoolConfig.HostSelectionPolicy = NewDefaultHostSelectionPolicy()
	cluster.Keyspace = keyspace

	if username != "" && password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: username,
			Password: password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	return NewDbWithConnectedInstance(session, keyspace), nil
}

// NewDbWithSession creates a new instance of Db using an existing Session abstraction
func NewDbWithSession(session Session, keyspace string) *Db {
	return &Db{
		session:  session,
		keyspace: keyspace,
		naming:   config.NewDefaultNaming(),
		now:      time.Now,
	}
}

// NewDbWithConnectedInstance creates a new instance of Db using an already connected gocql session
func NewDbWithConnectedInstance(session *gocql.Session, keyspace string) *Db {
	return NewDbWithSession(&GoCqlSession{ref: session}, keyspace)
}

func (db *Db) Keyspace() string {
	return db.keyspace
}

// CreateTable creates the table when it does not exist yet
func (db *Db) CreateTable(ctx context.Context) error {
	return db.session.Execute(ctx, createTableQuery(db.keyspace), NewQueryOptions())
}

func (db *Db) ListAll(ctx context.Context) ([]types.Row, error) {
	result, err := db.session.ExecuteIter(ctx, selectAllQuery(db.keyspace), NewQueryOptions())
	if err != nil {
		return nil, err
	}

	rows := make([]types.Row, 0, len(result.Values()))
	for _, values := range result.Values() {
		row, err := db.toRow(values)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	// Partition order is token order, sort back into insertion order
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreationTime == rows[j].CreationTime {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreationTime < rows[j].CreationTime
	})

	return rows, nil
}

func (db *Db) InsertOne(ctx context.Context, fields types.RowFields) (string, error) {
	if err := types.ValidateRowFields(fields); err != nil {
		return "", err
	}
	return db.insert(ctx, fields)
}

func (db *Db) insert(ctx context.Context, fields types.RowFields) (string, error) {
	now := db.now()
	id := gocql.UUIDFromTime(now)

	columns, values := insertColumns(db.naming, fields)
	columns = append([]string{columnID, columnCreationTime}, columns...)
	values = append([]interface{}{id, now}, values...)

	if err := db.session.Execute(ctx, insertQuery(db.keyspace, columns), NewQueryOptions(), values...); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (db *Db) InsertMany(ctx context.Context, items []types.RowFields) error {
	if err := validateBatch(items); err != nil {
		return err
	}

	for _, item := range items {
		if _, err := db.insert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (db *Db) Patch(ctx context.Context, id string, patch types.RowPatch) error {
	if err := types.ValidateRowPatch(patch); err != nil {
		return err
	}

	uuid, err := gocql.ParseUUID(id)
	if err != nil {
		return e.NewNotFoundError(notFoundMessage)
	}

	if patch.IsEmpty() {
		return db.ensureExists(ctx, uuid)
	}

	columns, values := patchColumns(db.naming, patch)
	values = append(values, uuid)

	result, err := db.session.ExecuteIter(ctx, updateQuery(db.keyspace, columns), NewQueryOptions(), values...)
	if err != nil {
		return err
	}

	if !applied(result) {
		return e.NewNotFoundError(notFoundMessage)
	}
	return nil
}

func (db *Db) ensureExists(ctx context.Context, id gocql.UUID) error {
	query := fmt.Sprintf(`SELECT "%s" FROM "%s"."%s" WHERE "%s" = ?`, columnID, db.keyspace, TableName, columnID)
	result, err := db.session.ExecuteIter(ctx, query, NewQueryOptions(), id)
	if err != nil {
		return err
	}
	if len(result.Values()) == 0 {
		return e.NewNotFoundError(notFoundMessage)
	}
	return nil
}

func (db *Db) Close() error {
	db.session.Close()
	return nil
}

func applied(result ResultSet) bool {
	values := result.Values()
	if len(values) == 0 {
		return false
	}
	switch value := values[0][columnApplied].(type) {
	case *bool:
		return value != nil && *value
	case bool:
		return value
	}
	return false
}

func (db *Db) toRow(values map[string]interface{}) (types.Row, error) {
	var row types.Row
	for column, value := range values {
		if column == columnApplied {
			continue
		}

		field := db.naming.ToField(column)
		switch field {
		case "_id":
			if v, ok := value.(*gocql.UUID); ok && v != nil {
				row.ID = v.String()
			}
		case "_creationTime":
			if v, ok := value.(*time.Time); ok && v != nil {
				row.CreationTime = v.UnixNano() / int64(time.Millisecond)
			}
		case types.FieldAthlete:
			row.Athlete = stringValue(value)
		case types.FieldCountry:
			row.Country = stringValue(value)
		case types.FieldSport:
			row.Sport = stringValue(value)
		case types.FieldDate:
			if v, ok := value.(*string); ok && v != nil {
				row.Date = types.StringPtr(*v)
			}
		case types.FieldAge:
			if v, ok := value.(*float64); ok && v != nil {
				row.Age = *v
			}
		case types.FieldYear:
			row.Year = intValue(value)
		case types.FieldGold:
			row.Gold = intValue(value)
		case types.FieldSilver:
			row.Silver = intValue(value)
		case types.FieldBronze:
			row.Bronze = intValue(value)
		case types.FieldTotal:
			row.Total = intValue(value)
		default:
			return types.Row{}, e.NewInternalError(fmt.Sprintf("unexpected column %s", column))
		}
	}

	if row.ID == "" {
		return types.Row{}, e.NewInternalError("row without identifier")
	}
	return row, nil
}

func stringValue(value interface{}) string {
	if v, ok := value.(*string); ok && v != nil {
		return *v
	}
	return ""
}

func intValue(value interface{}) *int {
	if v, ok := value.(*int); ok && v != nil {
		return types.IntPtr(*v)
	}
	return nil
}
