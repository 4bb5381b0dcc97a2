package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const recordCaptureCreated = `
INSERT INTO captures (url, selector, hostname, user_agent)
VALUES ($1, $2, $3, $4)
ON CONFLICT (url, selector) DO UPDATE
SET last_accessed_at = now(), access_count = captures.access_count + 1
`

type RecordCaptureCreatedParams struct {
	Url       string
	Selector  string
	Hostname  string
	UserAgent *string
}

func (q *Queries) RecordCaptureCreated(ctx context.Context, arg RecordCaptureCreatedParams) error {
	_, err := q.db.Exec(ctx, recordCaptureCreated, arg.Url, arg.Selector, arg.Hostname, arg.UserAgent)
	return err
}

const recordCaptureAccessed = `
UPDATE captures
SET last_accessed_at = now(), access_count = access_count + 1
WHERE url = $1 AND selector = $2
`

type RecordCaptureAccessedParams struct {
	Url      string
	Selector string
}

func (q *Queries) RecordCaptureAccessed(ctx context.Context, arg RecordCaptureAccessedParams) error {
	_, err := q.db.Exec(ctx, recordCaptureAccessed, arg.Url, arg.Selector)
	return err
}

const listCaptures = `
SELECT url, selector, hostname, user_agent, created_at, last_accessed_at, access_count
FROM captures
ORDER BY last_accessed_at DESC
`

func (q *Queries) ListCaptures(ctx context.Context) ([]Capture, error) {
	rows, err := q.db.Query(ctx, listCaptures)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Capture, error) {
		var c Capture
		err := row.Scan(&c.Url, &c.Selector, &c.Hostname, &c.UserAgent, &c.CreatedAt, &c.LastAccessedAt, &c.AccessCount)
		return c, err
	})
}

const deleteCapture = `
DELETE FROM captures WHERE url = $1
RETURNING selector
`

// DeleteCapture removes every recorded capture for the URL and returns the
// selectors that were recorded, so callers can evict the matching cache entries.
func (q *Queries) DeleteCapture(ctx context.Context, url string) ([]string, error) {
	rows, err := q.db.Query(ctx, deleteCapture, url)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var selector string
		err := row.Scan(&selector)
		return selector, err
	})
}

const listCaptureUserAgents = `
SELECT coalesce(user_agent, '') AS user_agent, count(*) AS count
FROM captures
GROUP BY user_agent
ORDER BY count DESC
`

func (q *Queries) ListCaptureUserAgents(ctx context.Context) ([]UserAgentCount, error) {
	rows, err := q.db.Query(ctx, listCaptureUserAgents)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (UserAgentCount, error) {
		var ua UserAgentCount
		err := row.Scan(&ua.UserAgent, &ua.Count)
		return ua, err
	})
}

const recordQrCodeCreated = `
INSERT INTO qr_codes (url, hostname)
VALUES ($1, $2)
ON CONFLICT (url) DO UPDATE
SET last_accessed_at = now(), access_count = qr_codes.access_count + 1
`

type RecordQrCodeCreatedParams struct {
	Url      string
	Hostname string
}

func (q *Queries) RecordQrCodeCreated(ctx context.Context, arg RecordQrCodeCreatedParams) error {
	_, err := q.db.Exec(ctx, recordQrCodeCreated, arg.Url, arg.Hostname)
	return err
}

const recordQrCodeAccessed = `
UPDATE qr_codes
SET last_accessed_at = now(), access_count = access_count + 1
WHERE url = $1
`

func (q *Queries) RecordQrCodeAccessed(ctx context.Context, url string) error {
	_, err := q.db.Exec(ctx, recordQrCodeAccessed, url)
	return err
}

const listQrCodes = `
SELECT url, hostname, created_at, last_accessed_at, access_count
FROM qr_codes
ORDER BY last_accessed_at DESC
`

func (q *Queries) ListQrCodes(ctx context.Context) ([]QrCode, error) {
	rows, err := q.db.Query(ctx, listQrCodes)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (QrCode, error) {
		var c QrCode
		err := row.Scan(&c.Url, &c.Hostname, &c.CreatedAt, &c.LastAccessedAt, &c.AccessCount)
		return c, err
	})
}

const deleteQrCode = `
DELETE FROM qr_codes WHERE url = $1
`

func (q *Queries) DeleteQrCode(ctx context.Context, url string) error {
	_, err := q.db.Exec(ctx, deleteQrCode, url)
	return err
}

const isAuthorized = `
SELECT EXISTS (
	SELECT 1 FROM domains
	WHERE authorized
	AND (domain = $1 OR (include_subdomains AND $1 LIKE '%.' || domain))
)
`

func (q *Queries) IsAuthorized(ctx context.Context, hostname string) (bool, error) {
	var authorized bool
	err := q.db.QueryRow(ctx, isAuthorized, hostname).Scan(&authorized)
	return authorized, err
}

const insertUnauthorizedDomain = `
INSERT INTO domains (domain, authorized)
VALUES ($1, false)
ON CONFLICT (domain) DO NOTHING
`

func (q *Queries) InsertUnauthorizedDomain(ctx context.Context, domain string) error {
	_, err := q.db.Exec(ctx, insertUnauthorizedDomain, domain)
	return err
}

const listDomains = `
SELECT domain, include_subdomains, authorized, created_at, updated_at
FROM domains
ORDER BY authorized, domain
`

func (q *Queries) ListDomains(ctx context.Context) ([]Domain, error) {
	rows, err := q.db.Query(ctx, listDomains)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Domain, error) {
		var d Domain
		err := row.Scan(&d.Domain, &d.IncludeSubdomains, &d.Authorized, &d.CreatedAt, &d.UpdatedAt)
		return d, err
	})
}

const upsertDomain = `
INSERT INTO domains (domain, include_subdomains, authorized)
VALUES ($1, $2, $3)
ON CONFLICT (domain) DO UPDATE
SET include_subdomains = $2, authorized = $3, updated_at = now()
RETURNING domain
`

type UpsertDomainParams struct {
	Domain            string
	IncludeSubdomains *bool
	Authorized        bool
}

func (q *Queries) UpsertDomain(ctx context.Context, arg UpsertDomainParams) (string, error) {
	var domain string
	err := q.db.QueryRow(ctx, upsertDomain, arg.Domain, arg.IncludeSubdomains, arg.Authorized).Scan(&domain)
	return domain, err
}

const deleteDomain = `
DELETE FROM domains WHERE domain = $1
`

func (q *Queries) DeleteDomain(ctx context.Context, domain string) error {
	_, err := q.db.Exec(ctx, deleteDomain, domain)
	return err
}

const deleteUnauthorizedStaleDomains = `
DELETE FROM domains
WHERE NOT authorized AND updated_at < now() - $1::interval
`

func (q *Queries) DeleteUnauthorizedStaleDomains(ctx context.Context, staleAfter pgtype.Interval) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteUnauthorizedStaleDomains, staleAfter)
	return tag.RowsAffected(), err
}

const insertLog = `
INSERT INTO logs (message, err, request_method, request_path, http_status, url, hostname)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertLogParams struct {
	Message       *string
	Err           *string
	RequestMethod *string
	RequestPath   *string
	HttpStatus    *int32
	Url           *string
	Hostname      *string
}

func (q *Queries) InsertLog(ctx context.Context, arg InsertLogParams) error {
	_, err := q.db.Exec(ctx, insertLog,
		arg.Message, arg.Err, arg.RequestMethod, arg.RequestPath, arg.HttpStatus, arg.Url, arg.Hostname)
	return err
}

const countLogs = `
SELECT count(*) FROM logs
`

func (q *Queries) CountLogs(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countLogs).Scan(&count)
	return count, err
}

const getRecentLogsPaginated = `
SELECT id, created_at, message, err, request_method, request_path, http_status, url, hostname
FROM logs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

type GetRecentLogsPaginatedParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) GetRecentLogsPaginated(ctx context.Context, arg GetRecentLogsPaginatedParams) ([]Log, error) {
	rows, err := q.db.Query(ctx, getRecentLogsPaginated, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Log, error) {
		var l Log
		err := row.Scan(&l.ID, &l.CreatedAt, &l.Message, &l.Err,
			&l.RequestMethod, &l.RequestPath, &l.HttpStatus, &l.Url, &l.Hostname)
		return l, err
	})
}

const deleteOldLogs = `
DELETE FROM logs WHERE created_at < now() - $1::interval
`

func (q *Queries) DeleteOldLogs(ctx context.Context, retention pgtype.Interval) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOldLogs, retention)
	return tag.RowsAffected(), err
}
