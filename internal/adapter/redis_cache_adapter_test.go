package adapter

import (
	"context"
	"testing"
	"time"

	"wiki-quiz/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_GetHit(t *testing.T) {
	client, rmock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	rmock.ExpectGet("wikiquiz:quiz:record:abc").SetVal(`{"id":"x"}`)

	val, err := cache.Get(context.Background(), "wikiquiz:quiz:record:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"x"}`, val)

	require.NoError(t, rmock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_GetMissReturnsErrCacheMiss(t *testing.T) {
	client, rmock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	rmock.ExpectGet("wikiquiz:quiz:record:missing").RedisNil()

	_, err := cache.Get(context.Background(), "wikiquiz:quiz:record:missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, rmock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_SetWithTTL(t *testing.T) {
	client, rmock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	rmock.ExpectSet("wikiquiz:quiz:record:abc", "payload", time.Hour).SetVal("OK")

	err := cache.Set(context.Background(), "wikiquiz:quiz:record:abc", "payload", time.Hour)
	require.NoError(t, err)

	require.NoError(t, rmock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	client, rmock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	rmock.ExpectDel("wikiquiz:quiz:record:abc").SetVal(1)

	err := cache.Delete(context.Background(), "wikiquiz:quiz:record:abc")
	require.NoError(t, err)

	require.NoError(t, rmock.ExpectationsWereMet())
}
