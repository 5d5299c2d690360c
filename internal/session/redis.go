package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

const redisOpTimeout = 3 * time.Second

// RedisStore persists the session in Redis under a single hash key. It is
// meant for the SDK running inside a long-lived aggregator process where
// local disk is not the right place for credentials.
type RedisStore struct {
	client  *redis.Client
	key     string
	current domain.Session
}

// NewRedisStore connects to Redis and loads any previously stored session.
func NewRedisStore(addr, password, key string) (*RedisStore, error) {
	s := &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		key: key,
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	sess := domain.Session{
		Token:  fields["token"],
		UserID: fields["userId"],
		Role:   domain.Role(fields["role"]),
	}
	if sess.Active() && sess.UserID != "" {
		s.current = sess
	}
	return s, nil
}

func (s *RedisStore) Set(credential string) (domain.Session, error) {
	sess, err := decodeSession(credential)
	if err != nil {
		s.current = domain.Session{}
		_ = s.Clear()
		return domain.Session{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	err = s.client.HSet(ctx, s.key,
		"token", sess.Token,
		"userId", sess.UserID,
		"role", string(sess.Role),
	).Err()
	if err != nil {
		return domain.Session{}, err
	}
	s.current = sess
	return sess, nil
}

func (s *RedisStore) Get() domain.Session {
	return s.current
}

func (s *RedisStore) Clear() error {
	s.current = domain.Session{}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
