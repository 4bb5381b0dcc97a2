package db

import "time"

type Capture struct {
	Url            string
	Selector       string
	Hostname       string
	UserAgent      *string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
}

type QrCode struct {
	Url            string
	Hostname       string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
}

type Domain struct {
	Domain            string
	IncludeSubdomains *bool
	Authorized        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Log struct {
	ID            int64
	CreatedAt     time.Time
	Message       *string
	Err           *string
	RequestMethod *string
	RequestPath   *string
	HttpStatus    *int32
	Url           *string
	Hostname      *string
}

type UserAgentCount struct {
	UserAgent string
	Count     int64
}
