package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/splitflow/splitflow/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error ❌: %v", err)
		return nil, err
	}
	err = createPaymentTable(db)
	if err != nil {
		return nil, err
	}
	err = createLedgerEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createOutboxEventTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createPaymentTable creates a PostgreSQL table for the Payment struct.
// The unique index on idempotency_key is the sole cross-request coordination
// mechanism for concurrent identical requests.
func createPaymentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			payment_id TEXT NOT NULL UNIQUE,
			idempotency_key TEXT NOT NULL UNIQUE,
			gross_amount NUMERIC(12,2) NOT NULL CHECK (gross_amount > 0),
			platform_fee_amount NUMERIC(12,2) NOT NULL DEFAULT 0.00,
			net_amount NUMERIC(12,2) NOT NULL,
			payment_method TEXT NOT NULL CHECK (payment_method IN ('pix', 'card')),
			installments INTEGER NOT NULL DEFAULT 1 CHECK (installments > 0),
			status TEXT NOT NULL DEFAULT 'captured',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating payments table: %v", err)
	}
	return err
}

// createLedgerEntryTable creates a PostgreSQL table for the LedgerEntry struct
func createLedgerEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id SERIAL PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			payment_id TEXT NOT NULL REFERENCES payments(payment_id) ON DELETE CASCADE,
			recipient_id TEXT NOT NULL,
			role TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating ledger_entries table: %v", err)
	}
	return err
}

// createOutboxEventTable creates a PostgreSQL table for the OutboxEvent struct
func createOutboxEventTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox_events (
			id SERIAL PRIMARY KEY,
			event_id TEXT NOT NULL UNIQUE,
			payment_id TEXT NOT NULL REFERENCES payments(payment_id) ON DELETE CASCADE,
			event_type TEXT NOT NULL DEFAULT 'payment.captured',
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			published_at TIMESTAMP
		)
	`)
	if err != nil {
		log.Printf("Error creating outbox_events table: %v", err)
		return err
	}
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_outbox_events_status ON outbox_events(status)
	`)
	if err != nil {
		log.Printf("Error creating outbox_events status index: %v", err)
	}
	return err
}
