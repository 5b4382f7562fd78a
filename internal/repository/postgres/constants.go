package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedGetAssetFmt    = "failed to get asset: %w"
	errFailedInsertAssetFmt = "failed to insert derived asset: %w"
	errFailedCopySharesFmt  = "failed to copy shares: %w"
	errFailedListDerivedFmt = "failed to list derived assets: %w"
	errFailedScanAssetFmt   = "failed to scan asset: %w"
	errIterateDerivedFmt    = "error iterating derived assets: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedGetAsset    = func(err error) error { return fmt.Errorf(errFailedGetAssetFmt, err) }
	errFailedInsertAsset = func(err error) error { return fmt.Errorf(errFailedInsertAssetFmt, err) }
	errFailedCopyShares  = func(err error) error { return fmt.Errorf(errFailedCopySharesFmt, err) }
	errFailedListDerived = func(err error) error { return fmt.Errorf(errFailedListDerivedFmt, err) }
	errFailedScanAsset   = func(err error) error { return fmt.Errorf(errFailedScanAssetFmt, err) }
	errIterateDerived    = func(err error) error { return fmt.Errorf(errIterateDerivedFmt, err) }
)
