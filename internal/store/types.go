// Package store persists indexed Gmail messages in a local SQLite database
// and answers compiled filter queries against them.
package store

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Email is one indexed message. PK is a locally generated surrogate key;
// ID is the Gmail message identifier and is unique across the table.
// ReceivedAt is Unix seconds.
type Email struct {
	PK            int64
	ID            string
	Sender        string
	Recipient     string
	Subject       string
	PlainTextBody string
	ReceivedAt    int64
}

// Received returns the delivery time carried by ReceivedAt.
func (e Email) Received() time.Time {
	return time.Unix(e.ReceivedAt, 0)
}

// NewPK draws a random surrogate key. The low 63 bits of a v4 UUID keep the
// value positive so SQLite stores it as a plain INTEGER PRIMARY KEY.
func NewPK() int64 {
	u := uuid.New()
	return int64(binary.BigEndian.Uint64(u[8:]) & (1<<63 - 1))
}

var (
	// ErrBootstrap reports a failure opening the database or applying its schema.
	ErrBootstrap = errors.New("store bootstrap failed")
	// ErrWrite reports a failed insert.
	ErrWrite = errors.New("store write failed")
	// ErrRead reports a failed query or row scan.
	ErrRead = errors.New("store read failed")
)
