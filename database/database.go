// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"github.com/ortelius/kevsync/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DBConnection is the structure that defines the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
	Logger      *zap.Logger

	transport *http.Transport
}

// Define a struct to hold the index definition
type indexConfig struct {
	IdxName  string
	IdxField string
	Unique   bool
}

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser, dbpass string, transport *http.Transport) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport:      transport,
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		},
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 90 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// InitializeDatabase connects to the db engine with retry, then creates the
// database and the kev collection if they do not exist. Unlike a long-lived
// service, a batch run must eventually give up, so the backoff is bounded.
func InitializeDatabase(ctx context.Context, cfg config.Config, logger *zap.Logger) (DBConnection, error) {
	const initialInterval = 2 * time.Second
	const maxInterval = 30 * time.Second
	const maxElapsed = 2 * time.Minute

	var db arangodb.Database
	var client arangodb.Client

	transport := newTransport()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = maxElapsed

	err := backoff.RetryNotify(func() error {
		endpoint := connection.NewRoundRobinEndpoints([]string{cfg.ArangoURL})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, cfg.ArangoUser, cfg.ArangoPass, transport))

		client = arangodb.NewClient(conn)

		versionInfo, err := client.Version(ctx)
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'", versionInfo.Version, versionInfo.License)
		return nil
	}, bo, func(err error, _ time.Duration) {
		logger.Sugar().Warnf("Retrying connection to ArangoDB: %v", err)
	})

	if err != nil {
		return DBConnection{}, fmt.Errorf("failed to connect to ArangoDB at %s: %w", cfg.ArangoURL, err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == cfg.DatabaseName {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, cfg.DatabaseName, &options); err != nil {
			return DBConnection{}, fmt.Errorf("failed to get database %s: %w", cfg.DatabaseName, err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, cfg.DatabaseName, nil); err != nil {
			return DBConnection{}, fmt.Errorf("failed to create database %s: %w", cfg.DatabaseName, err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections := make(map[string]arangodb.Collection)

	var col arangodb.Collection
	exists, _ = db.CollectionExists(ctx, cfg.CollectionName)
	if exists {
		var options arangodb.GetCollectionOptions
		if col, err = db.GetCollection(ctx, cfg.CollectionName, &options); err != nil {
			return DBConnection{}, fmt.Errorf("failed to use collection %s: %w", cfg.CollectionName, err)
		}
	} else {
		if col, err = db.CreateCollectionV2(ctx, cfg.CollectionName, nil); err != nil {
			return DBConnection{}, fmt.Errorf("failed to create collection %s: %w", cfg.CollectionName, err)
		}
	}
	collections[cfg.CollectionName] = col

	logger.Sugar().Infof("Connected to %s.%s", cfg.DatabaseName, cfg.CollectionName)

	return DBConnection{
		Database:    db,
		Collections: collections,
		Logger:      logger,
		transport:   transport,
	}, nil
}

// Close releases the connection pool backing the store client.
func (c DBConnection) Close() {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}

// EnsureIndexes idempotently creates the secondary indexes the connector
// queries against. The cve_id index is unique: it is what makes repeated
// loads replace rather than duplicate.
func EnsureIndexes(ctx context.Context, conn DBConnection, collectionName string) error {
	False := false
	True := true

	idxList := []indexConfig{
		{IdxName: "kev_ingestion_timestamp", IdxField: "etl_metadata.ingestion_timestamp"},
		{IdxName: "kev_cve_id", IdxField: "cve_id", Unique: true},
		{IdxName: "kev_risk_level", IdxField: "risk_level"},
		{IdxName: "kev_ransomware_use", IdxField: "known_ransomware_use"},
		{IdxName: "kev_is_overdue", IdxField: "is_overdue"},
		{IdxName: "kev_date_added", IdxField: "date_added"},
	}

	col, ok := conn.Collections[collectionName]
	if !ok {
		return fmt.Errorf("collection %s not initialized", collectionName)
	}

	for _, idx := range idxList {
		found := false

		if indexes, err := col.Indexes(ctx); err == nil {
			for _, index := range indexes {
				if idx.IdxName == index.Name {
					found = true
					break
				}
			}
		}

		if found {
			continue
		}

		unique := &False
		if idx.Unique {
			unique = &True
		}

		indexOptions := arangodb.CreatePersistentIndexOptions{
			Unique: unique,
			Sparse: &False,
			Name:   idx.IdxName,
		}

		_, _, err := col.EnsurePersistentIndex(ctx, []string{idx.IdxField}, &indexOptions)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", idx.IdxName, err)
		}
		conn.Logger.Sugar().Infof("Created index: %s on %s.%s", idx.IdxName, collectionName, idx.IdxField)
	}

	return nil
}
