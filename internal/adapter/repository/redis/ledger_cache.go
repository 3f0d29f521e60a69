package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	lastEntryKey        = "wallet:last_entry"
	lastEntryVersionKey = "wallet:last_entry:version"

	entryDataField = "entry"

	defaultCacheTTL = time.Hour
)

// fillScript caches an entry loaded from the store only if no append has
// touched the cache since the load started.
//
// KEYS[1] entry hash, KEYS[2] version counter.
// ARGV[1] version observed before the load, ARGV[2] entry id, ARGV[3] payload, ARGV[4] ttl ms.
var fillScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'id', ARGV[2], 'entry', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// appendScript records an append. The cached entry is replaced only when the
// new entry directly follows it; any other state is dropped.
//
// KEYS[1] entry hash, KEYS[2] version counter.
// ARGV[1] previous entry id, ARGV[2] entry id, ARGV[3] payload, ARGV[4] ttl ms.
var appendScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
local cached = redis.call('HGET', KEYS[1], 'id')
if cached and ARGV[1] ~= '' and cached == ARGV[1] then
	redis.call('HSET', KEYS[1], 'id', ARGV[2], 'entry', ARGV[3])
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
	return 1
end
redis.call('DEL', KEYS[1])
return 0
`)

// cachedEntry is the Redis representation of the latest ledger entry.
type cachedEntry struct {
	ID              string          `json:"id"`
	PreviousEntryID string          `json:"previous_entry_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	EventTime       time.Time       `json:"event_time"`
}

// CachedLedgerStore wraps a LedgerStore and keeps the latest entry in Redis.
//
// Every append through the cache bumps a version counter. A miss only fills
// the cache when the counter is unchanged since before the store read, and an
// append only replaces the cached entry it directly follows, so an older
// entry never overwrites a newer one. Appends made without the cache are
// caught by the store's chain check, which drops the cached value.
type CachedLedgerStore struct {
	next       usecase.LedgerStore
	client     *redis.Client
	key        string
	versionKey string
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewCachedLedgerStore creates a new CachedLedgerStore.
func NewCachedLedgerStore(next usecase.LedgerStore, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedLedgerStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedLedgerStore{
		next:       next,
		client:     client,
		key:        lastEntryKey,
		versionKey: lastEntryVersionKey,
		ttl:        ttl,
		logger:     logger,
	}
}

// LastEntry returns the cached latest entry, loading it from the wrapped store on a miss.
func (s *CachedLedgerStore) LastEntry(ctx context.Context) (*domain.Entry, error) {
	raw, err := s.client.HGet(ctx, s.key, entryDataField).Bytes()
	switch {
	case err == nil:
		var cached cachedEntry
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached.toDomain(), nil
		}
		s.logger.Warn().Msg("discarding malformed cached ledger entry")
	case !errors.Is(err, redis.Nil):
		s.logger.Warn().Err(err).Msg("ledger cache read failed")
	}

	version, versionErr := s.version(ctx)

	entry, err := s.next.LastEntry(ctx)
	if err != nil {
		return nil, err
	}
	if entry != nil && versionErr == nil {
		s.fill(ctx, version, entry)
	}
	return entry, nil
}

// AppendEntry appends through the wrapped store and refreshes the cache.
func (s *CachedLedgerStore) AppendEntry(ctx context.Context, entry *domain.Entry) error {
	if err := s.next.AppendEntry(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrLedgerConflict) {
			s.invalidate(ctx)
		}
		return err
	}

	// The entry is durable; a cancelled caller must not leave the cache behind.
	ctx = context.WithoutCancel(ctx)

	payload, err := encodeEntry(entry)
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode ledger cache entry")
		s.invalidate(ctx)
		return nil
	}

	keys := []string{s.key, s.versionKey}
	if err := appendScript.Run(ctx, s.client, keys, entry.PreviousEntryID, entry.ID, payload, s.ttl.Milliseconds()).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("ledger cache write failed")
		s.invalidate(ctx)
	}
	return nil
}

func (s *CachedLedgerStore) version(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, s.versionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("ledger cache version read failed")
		return "", err
	}
	return v, nil
}

func (s *CachedLedgerStore) fill(ctx context.Context, version string, entry *domain.Entry) {
	payload, err := encodeEntry(entry)
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode ledger cache entry")
		return
	}

	keys := []string{s.key, s.versionKey}
	if err := fillScript.Run(ctx, s.client, keys, version, entry.ID, payload, s.ttl.Milliseconds()).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("ledger cache fill failed")
	}
}

// invalidate drops the cached entry and bumps the version so in-flight fills are discarded.
func (s *CachedLedgerStore) invalidate(ctx context.Context) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, s.versionKey)
		pipe.Del(ctx, s.key)
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("ledger cache invalidation failed")
	}
}

func encodeEntry(entry *domain.Entry) (string, error) {
	payload, err := json.Marshal(newCachedEntry(entry))
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func newCachedEntry(entry *domain.Entry) cachedEntry {
	return cachedEntry{
		ID:              entry.ID,
		PreviousEntryID: entry.PreviousEntryID,
		Amount:          entry.Amount,
		BalanceBefore:   entry.BalanceBefore,
		EventTime:       entry.EventTime,
	}
}

func (c cachedEntry) toDomain() *domain.Entry {
	return &domain.Entry{
		ID:              c.ID,
		PreviousEntryID: c.PreviousEntryID,
		Amount:          c.Amount,
		BalanceBefore:   c.BalanceBefore,
		EventTime:       c.EventTime,
	}
}

var _ usecase.LedgerStore = (*CachedLedgerStore)(nil)
