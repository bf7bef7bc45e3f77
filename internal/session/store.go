package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Data 服务端会话内容：cookie 只携带 session id
type Data struct {
	UserID uint
	Role   string
	Nom    string
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func key(id string) string { return "session:" + id }

// Create 生成新会话并写入 redis，返回 session id
func (s *Store) Create(ctx context.Context, d Data) (string, error) {
	id := uuid.NewString()
	fields := map[string]any{
		"user_id": strconv.FormatUint(uint64(d.UserID), 10),
		"role":    d.Role,
		"nom":     d.Nom,
	}
	if err := s.client.HSet(ctx, key(id), fields).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if err := s.client.Expire(ctx, key(id), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("set session expiration: %w", err)
	}
	return id, nil
}

// Get 找不到或已过期返回 (nil, nil)
func (s *Store) Get(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, nil
	}
	fields, err := s.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	uid, err := strconv.ParseUint(fields["user_id"], 10, 64)
	if err != nil {
		// 内容损坏按不存在处理，顺手清掉
		_ = s.client.Del(ctx, key(id)).Err()
		return nil, nil
	}
	return &Data{UserID: uint(uid), Role: fields["role"], Nom: fields["nom"]}, nil
}

// Destroy 幂等：key 不存在也算成功
func (s *Store) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
