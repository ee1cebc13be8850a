// Package output writes compiled documents to stdout, local files or S3.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.trai.ch/zerr"
	"sigs.k8s.io/yaml"
)

var _ ports.DocumentWriter = (*Writer)(nil)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Writer implements ports.DocumentWriter.
type Writer struct {
	stdout io.Writer

	mu        sync.Mutex
	newClient func(ctx context.Context) (ObjectPutter, error)
	client    ObjectPutter
}

// NewWriter creates a Writer that uploads with the default AWS credential chain.
func NewWriter() *Writer {
	return &Writer{stdout: os.Stdout, newClient: defaultClient}
}

// NewWriterWithClient creates a Writer with an explicit stdout and S3 client.
func NewWriterWithClient(stdout io.Writer, client ObjectPutter) *Writer {
	return &Writer{stdout: stdout, client: client}
}

func defaultClient(ctx context.Context) (ObjectPutter, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load aws config")
	}
	return s3.NewFromConfig(cfg), nil
}

// Write encodes doc and stores it at dest.
func (w *Writer) Write(ctx context.Context, dest string, format domain.Format, doc any) error {
	data, err := Encode(format, doc)
	if err != nil {
		return err
	}

	switch {
	case dest == "" || dest == domain.StdoutPath:
		if _, err := w.stdout.Write(data); err != nil {
			return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
		}
		return nil
	case strings.HasPrefix(dest, domain.S3Scheme):
		return w.upload(ctx, dest, format, data)
	default:
		return writeFile(dest, data)
	}
}

// Encode renders doc as YAML or indented JSON with a trailing newline.
func Encode(format domain.Format, doc any) ([]byte, error) {
	switch format {
	case domain.FormatYAML, "":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode document")
		}
		return data, nil
	case domain.FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode document")
		}
		return append(data, '\n'), nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedFormat, "format", string(format))
	}
}

func writeFile(path string, data []byte) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // Path is cleaned and provided by the user
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	return nil
}

func (w *Writer) upload(ctx context.Context, dest string, format domain.Format, data []byte) error {
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return err
	}

	client, err := w.s3Client(ctx)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", dest)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(format)),
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", dest)
	}
	return nil
}

func (w *Writer) s3Client(ctx context.Context) (ObjectPutter, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.client != nil {
		return w.client, nil
	}
	if w.newClient == nil {
		return nil, zerr.New("no s3 client configured")
	}
	client, err := w.newClient(ctx)
	if err != nil {
		return nil, err
	}
	w.client = client
	return client, nil
}

// ParseS3URL splits s3://bucket/key into bucket and key.
func ParseS3URL(dest string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(dest, domain.S3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", zerr.With(zerr.With(domain.ErrOutputWriteFailed, "path", dest), "reason", "expected s3://bucket/key")
	}
	return bucket, key, nil
}

func contentType(format domain.Format) string {
	if format == domain.FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}
