// Package history keeps a MySQL log of sent messages and their
// delivery states. The daemon inserts a row per accepted message and
// the delivery-report poller updates it until the state is final.
package history

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type DB struct {
	db *sql.DB
}

// Connect opens the MySQL database holding the send log. The DSN must
// include parseTime=true so the sent timestamp scans into time.Time.
func Connect(dsn string) (*DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Entry is one sent message as stored in the log.
type Entry struct {
	SMSID    string    // gateway message identifier
	CustomID string    // identifier generated on our side
	From     string    // sender id
	To       string    // destination number
	Text     string    // message text
	Parts    int       // local part estimate
	Price    float64   // cost reported by the gateway
	Status   int       // last known delivery state
	Sent     time.Time // filled by the database
}

// Insert records a freshly accepted message.
func (db *DB) Insert(e Entry) error {
	_, err := db.db.Exec(
		`INSERT log SET smsid=?,customid=?,sender=?,receiver=?,text=?,parts=?,price=?,status=?,final=0`,
		e.SMSID, e.CustomID, e.From, e.To, e.Text, e.Parts, e.Price, e.Status)
	return err
}

// UpdateStatus stores a new delivery state of a message. Once a final
// state is written the message leaves the pending set for good.
func (db *DB) UpdateStatus(smsID string, status int, final bool) error {
	_, err := db.db.Exec(`UPDATE log SET status=?,final=? WHERE smsid=?`,
		status, final, smsID)
	return err
}

// Pending returns the ids of messages that have not reached a final
// delivery state yet, oldest first.
func (db *DB) Pending() ([]string, error) {
	rows, err := db.db.Query(`SELECT smsid FROM log WHERE final=0 ORDER BY sent`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get returns the log entry of a message.
func (db *DB) Get(smsID string) (*Entry, error) {
	var e Entry
	err := db.db.QueryRow(
		`SELECT smsid,customid,sender,receiver,text,parts,price,status,sent FROM log WHERE smsid=?`,
		smsID).Scan(&e.SMSID, &e.CustomID, &e.From, &e.To, &e.Text, &e.Parts, &e.Price, &e.Status, &e.Sent)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
