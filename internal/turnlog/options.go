package turnlog

import (
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"google.golang.org/api/sheets/v4"
)

// Option is a functional option for configuring a turn log store.
type Option func(*storeConfig)

// storeConfig holds configuration shared by the drivers.
type storeConfig struct {
	filePath string

	redisClient *redis.Client
	redisKey    string

	supabaseClient *supabase.Client
	supabaseTable  string

	sheetsService *sheets.Service
	sheetID       string
	sheetRange    string
}

// WithFilePath sets the path for the file store.
func WithFilePath(path string) Option {
	return func(c *storeConfig) {
		c.filePath = path
	}
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) Option {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisKey sets the list key rows are pushed onto.
func WithRedisKey(key string) Option {
	return func(c *storeConfig) {
		c.redisKey = key
	}
}

// WithSupabaseClient sets the Supabase client for the Supabase store.
func WithSupabaseClient(client *supabase.Client) Option {
	return func(c *storeConfig) {
		c.supabaseClient = client
	}
}

// WithSupabaseTable sets the table rows are inserted into.
func WithSupabaseTable(table string) Option {
	return func(c *storeConfig) {
		c.supabaseTable = table
	}
}

// WithSheetsService sets the Google Sheets service for the sheets store.
func WithSheetsService(svc *sheets.Service) Option {
	return func(c *storeConfig) {
		c.sheetsService = svc
	}
}

// WithSheet sets the spreadsheet id and the A1 range rows are appended to.
func WithSheet(sheetID, sheetRange string) Option {
	return func(c *storeConfig) {
		c.sheetID = sheetID
		c.sheetRange = sheetRange
	}
}
