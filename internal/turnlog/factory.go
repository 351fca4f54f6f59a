package turnlog

// StoreType represents the type of turn log store.
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeFile     StoreType = "file"
	StoreTypeSheets   StoreType = "sheets"
	StoreTypeSupabase StoreType = "supabase"
	StoreTypeRedis    StoreType = "redis"
)

// New creates a Log for the given store type. Drivers that talk to an
// external service take their client through an Option; New does not dial
// anything itself.
func New(storeType StoreType, opts ...Option) (Log, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemory(), nil

	case StoreTypeFile:
		if config.filePath == "" {
			return nil, ErrInvalidConfig
		}
		return newFileLog(config.filePath)

	case StoreTypeSheets:
		if config.sheetsService == nil || config.sheetID == "" || config.sheetRange == "" {
			return nil, ErrInvalidConfig
		}
		return &sheetsLog{
			svc:        config.sheetsService,
			sheetID:    config.sheetID,
			sheetRange: config.sheetRange,
		}, nil

	case StoreTypeSupabase:
		if config.supabaseClient == nil || config.supabaseTable == "" {
			return nil, ErrInvalidConfig
		}
		return &supabaseLog{
			client: config.supabaseClient,
			table:  config.supabaseTable,
		}, nil

	case StoreTypeRedis:
		if config.redisClient == nil || config.redisKey == "" {
			return nil, ErrInvalidConfig
		}
		return &redisLog{
			client: config.redisClient,
			key:    config.redisKey,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}
