package pdfstore

import (
	"context"
	"testing"

	"docsign/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	st, closeFn, err := Open(ctx, cfg)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &Memory{}, st)

	mr := miniredis.RunT(t)
	cfg.CacheBackend = config.BackendRedis
	cfg.RedisURL = "redis://" + mr.Addr()
	st, closeFn, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &Redis{}, st)
	require.NoError(t, st.Put(ctx, "https://x/a.pdf", []byte("%PDF")))

	cfg.CacheBackend = config.BackendS3
	cfg.S3Bucket = ""
	_, _, err = Open(ctx, cfg)
	assert.Error(t, err)
}

func TestS3LoadOptionsUseStaticKeysWhenSet(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, s3LoadOptions(cfg), 1)

	cfg.S3AccessKeyID, cfg.S3SecretAccessKey = "minio", "minio123"
	assert.Len(t, s3LoadOptions(cfg), 2)
}
