package store

// schema creates the email table and the secondary indexes. Every statement
// is idempotent so Open can run it on every start.
const schema = `
CREATE TABLE IF NOT EXISTS emails (
    pk INTEGER PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    sender TEXT NOT NULL,
    recipient TEXT NOT NULL,
    subject TEXT NOT NULL,
    plain_text_body TEXT NOT NULL,
    received_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_message_id ON emails (id);
CREATE INDEX IF NOT EXISTS idx_sender ON emails (sender);
CREATE INDEX IF NOT EXISTS idx_recipient ON emails (recipient);
CREATE INDEX IF NOT EXISTS idx_subject ON emails (subject);
CREATE INDEX IF NOT EXISTS idx_plain_text_body ON emails (plain_text_body);
CREATE INDEX IF NOT EXISTS idx_received_at ON emails (received_at);
`

// ftsSchema mirrors the text columns into an external-content FTS5 table
// keyed by the surrogate pk, with triggers keeping the mirror in lockstep
// with the base table.
const ftsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS fts_idx_emails USING fts5(
    sender,
    recipient,
    subject,
    plain_text_body,
    content='emails',
    content_rowid='pk'
);

CREATE TRIGGER IF NOT EXISTS emails_ai AFTER INSERT ON emails BEGIN
    INSERT INTO fts_idx_emails(rowid, sender, recipient, subject, plain_text_body)
    VALUES (new.pk, new.sender, new.recipient, new.subject, new.plain_text_body);
END;

CREATE TRIGGER IF NOT EXISTS emails_ad AFTER DELETE ON emails BEGIN
    INSERT INTO fts_idx_emails(fts_idx_emails, rowid, sender, recipient, subject, plain_text_body)
    VALUES ('delete', old.pk, old.sender, old.recipient, old.subject, old.plain_text_body);
END;

CREATE TRIGGER IF NOT EXISTS emails_au AFTER UPDATE ON emails BEGIN
    INSERT INTO fts_idx_emails(fts_idx_emails, rowid, sender, recipient, subject, plain_text_body)
    VALUES ('delete', old.pk, old.sender, old.recipient, old.subject, old.plain_text_body);
    INSERT INTO fts_idx_emails(rowid, sender, recipient, subject, plain_text_body)
    VALUES (new.pk, new.sender, new.recipient, new.subject, new.plain_text_body);
END;
`
