package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/types"
	"go.uber.org/zap"
)

// CollectionName is the name clients use for the dataset
const CollectionName = "olympicWinners"

// Store is the backing document collection of olympic winners
type Store interface {
	// ListAll reads the whole collection, ordered by insertion
	ListAll(ctx context.Context) ([]types.Row, error)

	// InsertOne validates and persists a row, returning the identifier assigned to it
	InsertOne(ctx context.Context, fields types.RowFields) (string, error)

	// InsertMany persists the items one after the other. Items inserted before a failure are kept.
	InsertMany(ctx context.Context, items []types.RowFields) error

	// Patch merges the supplied fields into an existing row, failing with a NotFoundError when
	// the identifier does not exist
	Patch(ctx context.Context, id string, patch types.RowPatch) error

	Close() error
}

// Options are the settings used to open a store from its url
type Options struct {
	Username string
	Password string
	Naming   config.NamingConvention
	Logger   log.Logger
}

// Open creates the store described by storeURL. Supported schemes:
//
//	memory://
//	bolt:///path/to/file.db
//	cassandra://host1,host2/keyspace
func Open(storeURL string, options Options) (Store, error) {
	if options.Naming == nil {
		options.Naming = config.NewDefaultNaming()
	}

	if options.Logger == nil {
		options.Logger = log.NewZapLogger(zap.NewNop())
	}

	parsed, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store url %q: %s", storeURL, err)
	}

	store, err := openStore(parsed, storeURL, options)
	if err != nil {
		options.Logger.Error("unable to open store", "scheme", parsed.Scheme, "error", err)
		return nil, err
	}
	options.Logger.Info("store opened", "scheme", parsed.Scheme, "host", parsed.Host, "path", parsed.Path)
	return store, nil
}

func openStore(parsed *url.URL, storeURL string, options Options) (Store, error) {
	switch parsed.Scheme {
	case "memory", "":
		return NewMemoryStore(), nil
	case "bolt":
		path := parsed.Path
		if parsed.Host != "" {
			// bolt://relative/file.db
			path = parsed.Host + path
		}
		if path == "" {
			return nil, fmt.Errorf("bolt store url requires a file path: %q", storeURL)
		}
		return NewBoltStore(path)
	case "cassandra":
		hosts := strings.Split(parsed.Host, ",")
		keyspace := strings.Trim(parsed.Path, "/")
		if keyspace == "" {
			return nil, fmt.Errorf("cassandra store url requires a keyspace: %q", storeURL)
		}
		username, password := options.Username, options.Password
		if parsed.User != nil {
			username = parsed.User.Username()
			if p, ok := parsed.User.Password(); ok {
				password = p
			}
		}
		db, err := NewDb(username, password, keyspace, hosts...)
		if err != nil {
			return nil, err
		}
		db.naming = options.Naming
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", parsed.Scheme)
	}
}
