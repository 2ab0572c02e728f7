package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/topicmap/artifact"
	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/blobstore/minio"
	"github.com/hupe1980/topicmap/blobstore/s3"
	"github.com/hupe1980/topicmap/config"
	"github.com/hupe1980/topicmap/internal/compress"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPublishCmd(), newFetchCmd())
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <dir>",
		Short: "Upload a build directory and make it the current release",
		Long: `The publish command uploads the artifacts of a build directory, compressed,
under their build ID, then the manifest, then points CURRENT at the build.
The remote store is configured under remote.* (see --config).

Example:
  TOPICMAP_REMOTE_BUCKET=releases topicmap publish ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args)
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <dir>",
		Short: "Download the current release into a directory",
		Long: `The fetch command resolves CURRENT in the remote store, downloads and
verifies every artifact and writes the manifest last.

Example:
  topicmap fetch /var/lib/topicmap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args)
		},
	}
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	remote, err := openRemote(ctx, cfg.Remote)
	if err != nil {
		return err
	}
	opts, err := transferOptions(cfg.Publish)
	if err != nil {
		return err
	}
	m, err := artifact.Publish(ctx, blobstore.NewLocalStore(args[0]), remote, opts...)
	logger.LogPublish(ctx, "publish", buildID(m), artifactCount(m), err)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), m.BuildID)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	remote, err := openRemote(ctx, cfg.Remote)
	if err != nil {
		return err
	}
	opts, err := transferOptions(cfg.Publish)
	if err != nil {
		return err
	}
	m, err := artifact.Fetch(ctx, remote, blobstore.NewLocalStore(args[0]), opts...)
	logger.LogPublish(ctx, "fetch", buildID(m), artifactCount(m), err)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), m.BuildID)
	return nil
}

func transferOptions(c config.PublishConfig) ([]artifact.Option, error) {
	codec, err := compress.ParseCodec(c.Codec)
	if err != nil {
		return nil, err
	}
	return []artifact.Option{
		artifact.WithCodec(codec),
		artifact.WithConcurrency(c.Concurrency),
		artifact.WithRateLimit(c.RateLimit),
		artifact.WithMemoryLimit(c.MemoryLimit),
		artifact.WithLogger(logger.Logger),
	}, nil
}

// openRemote connects to the release store named by c.
func openRemote(ctx context.Context, c config.RemoteConfig) (blobstore.BlobStore, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("%w: remote.bucket is required", config.ErrInvalid)
	}
	switch c.Kind {
	case "minio":
		store, err := minio.New(minio.Config{
			Endpoint:  c.Endpoint,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			Region:    c.Region,
			Secure:    c.Secure,
			Bucket:    c.Bucket,
			Prefix:    c.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		opts := []s3.Option{s3.WithPrefix(c.Prefix), s3.WithPathStyle(c.PathStyle)}
		if c.Region != "" {
			opts = append(opts, s3.WithRegion(c.Region))
		}
		if c.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.Endpoint))
		}
		store, err := s3.New(ctx, c.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
