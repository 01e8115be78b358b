package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound    = errors.New("asset not found")
	ErrInvalidName = errors.New("invalid asset name")
)

// Asset is an opened static resource. Callers must close Body.
type Asset struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	Body        io.ReadCloser
}

// Storage serves the bundled static resources (shell assets, manifest, dataset, icons).
type Storage interface {
	Open(ctx context.Context, name string) (*Asset, error)
}

type LocalStorage struct {
	fsys fs.FS
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
	prefix string
}

// compile-time checks
var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*SpacesStorage)(nil)
)

// NewLocalStorage serves assets from a directory on disk.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{fsys: os.DirFS(dir)}
}

// NewEmbeddedStorage serves assets from a file system compiled into the binary.
func NewEmbeddedStorage(fsys fs.FS) *LocalStorage {
	return &LocalStorage{fsys: fsys}
}

func NewSpacesStorage(endpoint, region, bucket, prefix, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// normalizeName cleans a request path into a slash separated name relative to the
// asset root and rejects anything that would escape it.
func normalizeName(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", ErrInvalidName
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return cleaned, nil
}

func (ls *LocalStorage) Open(ctx context.Context, name string) (*Asset, error) {
	clean, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	f, err := ls.fsys.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("failed to open asset %s: %w", clean, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat asset %s: %w", clean, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, clean)
	}

	log.Debug().Str("asset", clean).Int64("size", info.Size()).Msg("Serving local asset")
	return &Asset{
		Name:        clean,
		ContentType: getContentType(clean),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Body:        f,
	}, nil
}

func (ss *SpacesStorage) Open(ctx context.Context, name string) (*Asset, error) {
	clean, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	key := clean
	if ss.prefix != "" {
		key = ss.prefix + "/" + clean
	}

	out, err := ss.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to fetch asset from Spaces")
		return nil, fmt.Errorf("failed to fetch from Spaces: %w", err)
	}

	asset := &Asset{
		Name:        clean,
		ContentType: getContentType(clean),
		Size:        aws.Int64Value(out.ContentLength),
		ModTime:     aws.TimeValue(out.LastModified),
		Body:        out.Body,
	}
	if ct := aws.StringValue(out.ContentType); ct != "" && ct != "application/octet-stream" {
		asset.ContentType = ct
	}
	return asset, nil
}

// ReadAll opens name and returns its whole content.
func ReadAll(ctx context.Context, s Storage, name string) ([]byte, error) {
	asset, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer asset.Body.Close()
	return io.ReadAll(asset.Body)
}

func getContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		if strings.HasSuffix(filename, "manifest.json") {
			return "application/manifest+json"
		}
		return "application/json"
	case ".webmanifest":
		return "application/manifest+json"
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
