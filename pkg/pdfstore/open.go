package pdfstore

import (
	"context"
	"strings"

	"docsign/pkg/config"
	"docsign/pkg/db"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Open builds the backend named by cfg.CacheBackend. The returned func
// releases connections held by the backend.
func Open(ctx context.Context, cfg config.Config) (Store, func(), error) {
	noop := func() {}
	switch cfg.CacheBackend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, errors.Wrap(err, "parse redis url")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, errors.Wrap(err, "ping redis")
		}
		log.Info().Str("addr", opts.Addr).Dur("ttl", cfg.RedisTTL).Msg("pdf cache backed by redis")
		return NewRedis(client, cfg.RedisTTL), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		st := NewPostgres(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		log.Info().Msg("pdf cache backed by postgres")
		return st, pool.Close, nil

	case config.BackendS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, noop, errors.New("s3 bucket is required for the s3 cache backend")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, s3LoadOptions(cfg)...)
		if err != nil {
			return nil, noop, errors.Wrap(err, "load aws sdk config")
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if ep := strings.TrimSpace(cfg.S3Endpoint); ep != "" {
				o.BaseEndpoint = aws.String(ep)
				o.UsePathStyle = true
			}
		})
		log.Info().Str("bucket", cfg.S3Bucket).Str("prefix", cfg.S3Prefix).Msg("pdf cache backed by s3")
		return NewS3(client, cfg.S3Bucket, cfg.S3Prefix), noop, nil

	default:
		st, err := NewMemory(cfg.CacheMaxEntries)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Int("max_entries", cfg.CacheMaxEntries).Msg("pdf cache held in memory")
		return st, noop, nil
	}
}

func s3LoadOptions(cfg config.Config) []func(*awsconfig.LoadOptions) error {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}
	return opts
}
