package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/termtracker/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite database and ensures the schema exists. Amounts
// and rates are stored as TEXT so decimal values round-trip without binary
// float drift; dates are stored as TEXT in "2006-01-02" form.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateDepositsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		auth_provider TEXT DEFAULT 'local',
		is_email_verified BOOLEAN DEFAULT FALSE,
		email_verification_token TEXT,
		email_verification_token_expires_at TIMESTAMP,
		password_reset_token TEXT,
		password_reset_token_expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS deposits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		principal TEXT NOT NULL,
		annual_rate TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		compounding TEXT NOT NULL,
		currency TEXT NOT NULL,
		fx_aud_to_gbp TEXT NOT NULL,
		fx_gbp_to_aud TEXT NOT NULL,
		notes TEXT DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS pensions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		monthly_amount TEXT NOT NULL,
		tax_paid TEXT NOT NULL DEFAULT '0',
		currency TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		notes TEXT DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS tax_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		jurisdiction TEXT NOT NULL,
		marginal_rate TEXT NOT NULL DEFAULT '0',
		tax_year_start_month INTEGER NOT NULL,
		tax_year_start_day INTEGER NOT NULL,
		threshold TEXT NOT NULL DEFAULT '0',
		threshold_currency TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		UNIQUE(user_id, jurisdiction)
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateDepositsTable adds columns introduced after the first release to an
// existing deposits table. New installations get them from CREATE TABLE.
func migrateDepositsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='deposits'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'deposits' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'deposits' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(deposits)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'deposits'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'deposits': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'deposits'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'deposits': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'deposits'", "error", err)
		}
		return
	}

	if _, ok := columnExists["notes"]; !ok {
		if _, err := DB.Exec("ALTER TABLE deposits ADD COLUMN notes TEXT DEFAULT ''"); err != nil {
			logger.L.Error("Error adding 'notes' column to 'deposits' table", "error", err)
		} else {
			logger.L.Info("Added 'notes' column to 'deposits' table")
		}
	}

	// Early builds stored a single conversion rate; the snapshot pair
	// replaced it so each direction keeps its captured rate.
	if _, ok := columnExists["fx_gbp_to_aud"]; !ok {
		if _, err := DB.Exec("ALTER TABLE deposits ADD COLUMN fx_gbp_to_aud TEXT DEFAULT '1.923077'"); err != nil {
			logger.L.Error("Error adding 'fx_gbp_to_aud' column to 'deposits' table", "error", err)
		} else {
			logger.L.Info("Added 'fx_gbp_to_aud' column to 'deposits' table")
		}
	}
}
