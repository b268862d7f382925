// Package archive stores graph snapshots in an S3 bucket. Graphs are
// kept in the same text format the graphio package reads and writes,
// optionally snappy-compressed, so a snapshot pulled with any S3 client
// is directly loadable.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/graphio"
)

// ErrNotFound is returned when no snapshot exists under a name.
var ErrNotFound = errors.New("snapshot not found")

// Config describes the bucket the store talks to. Endpoint and the
// static credentials are for MinIO-style deployments; leave them empty
// to use the ambient AWS credential chain.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Store reads and writes graph snapshots in one bucket under one
// key prefix.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewStore builds a store from cfg. The bucket must already exist;
// the first operation will surface access problems.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// Path-style addressing, MinIO and most S3 clones need it
		o.UsePathStyle = true
	})

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// key maps a snapshot name into the bucket namespace.
func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// compressed reports whether a snapshot name selects the snappy codec.
func compressed(name string) bool {
	return strings.HasSuffix(name, graphio.SnappyExt)
}

// PutGraph stores g under name. Names ending in .sz are stored as
// snappy streams.
func (s *Store) PutGraph(ctx context.Context, name string, g *graph.Graph) error {
	var buf bytes.Buffer

	if compressed(name) {
		sw := snappy.NewBufferedWriter(&buf)
		if err := graphio.Write(sw, g); err != nil {
			return fmt.Errorf("archive: encode %s: %w", name, err)
		}
		if err := sw.Close(); err != nil {
			return fmt.Errorf("archive: encode %s: %w", name, err)
		}
	} else {
		if err := graphio.Write(&buf, g); err != nil {
			return fmt.Errorf("archive: encode %s: %w", name, err)
		}
	}

	key := s.key(name)
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("archive: put %s: %w", name, err)
	}
	return nil
}

// GetGraph fetches the snapshot stored under name. Missing snapshots
// fail with ErrNotFound.
func (s *Store) GetGraph(ctx context.Context, name string) (*graph.Graph, error) {
	key := s.key(name)
	input := &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("archive: get %s: %w", name, err)
	}
	defer result.Body.Close()

	var r io.Reader = result.Body
	if compressed(name) {
		r = snappy.NewReader(r)
	}

	g, err := graphio.Read(r)
	if err != nil {
		return nil, fmt.Errorf("archive: decode %s: %w", name, err)
	}
	return g, nil
}

// List returns the names of all stored snapshots, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	params := &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
	}
	if s.prefix != "" {
		params.Prefix = &s.prefix
	}

	var names []string
	p := s3.NewListObjectsV2Paginator(s.client, params)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("archive: list: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			name := strings.TrimPrefix(*obj.Key, s.prefix)
			name = strings.TrimPrefix(name, "/")
			if name != "" {
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes the snapshot stored under name. Deleting a missing
// snapshot is not an error, S3 semantics apply.
func (s *Store) Delete(ctx context.Context, name string) error {
	key := s.key(name)
	input := &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}
	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("archive: delete %s: %w", name, err)
	}
	return nil
}
