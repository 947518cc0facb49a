package store

import (
	"context"
	"fmt"

	"github.com/MrEthical07/tokengate"
	"github.com/redis/go-redis/v9"
)

const (
	fieldPasswordHash = "password_hash"
	fieldActive       = "active"
)

// RedisStore keeps one hash per user at "<prefix>:<username>" with the
// fields password_hash and active ("1" or "0").
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store under prefix, "tgc" when empty.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "tgc"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(username string) string {
	return s.prefix + ":" + username
}

// Put writes rec, replacing any previous record.
func (s *RedisStore) Put(ctx context.Context, rec tokengate.CredentialRecord) error {
	if rec.Username == "" {
		return errEmptyUsername
	}

	active := "0"
	if rec.Active {
		active = "1"
	}
	if err := s.redis.HSet(ctx, s.key(rec.Username),
		fieldPasswordHash, rec.PasswordHash,
		fieldActive, active,
	).Err(); err != nil {
		return fmt.Errorf("%w: %v", tokengate.ErrCredentialStoreUnavailable, err)
	}
	return nil
}

// Delete removes the hash for username.
func (s *RedisStore) Delete(ctx context.Context, username string) error {
	if err := s.redis.Del(ctx, s.key(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", tokengate.ErrCredentialStoreUnavailable, err)
	}
	return nil
}

// FindActive reads the hash for username. A missing hash, an empty
// password_hash or active other than "1" is ErrCredentialNotFound.
func (s *RedisStore) FindActive(ctx context.Context, username string) (tokengate.CredentialRecord, error) {
	if username == "" {
		return tokengate.CredentialRecord{}, tokengate.ErrCredentialNotFound
	}

	fields, err := s.redis.HGetAll(ctx, s.key(username)).Result()
	if err != nil {
		return tokengate.CredentialRecord{}, fmt.Errorf("%w: %v", tokengate.ErrCredentialStoreUnavailable, err)
	}

	hash := fields[fieldPasswordHash]
	if hash == "" || fields[fieldActive] != "1" {
		return tokengate.CredentialRecord{}, tokengate.ErrCredentialNotFound
	}

	return tokengate.CredentialRecord{
		Username:     username,
		PasswordHash: hash,
		Active:       true,
	}, nil
}
