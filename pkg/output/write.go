package output

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang/glog"

	"github.com/Treecase/Raytracer/pkg/renderer"
)

// UploadTimeout bounds a single S3 upload
const UploadTimeout = 30 * time.Second

const s3Scheme = "s3://"

// ObjectPutter is the part of the S3 client used for uploads
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Options controls how a framebuffer is written
type Options struct {
	Format Format // Auto picks the format from the path extension
	Scale  int    // Integer upscale factor (0 or 1 = none)

	S3Region   string       // Region for s3:// targets
	S3Endpoint string       // Optional S3-compatible endpoint
	S3Client   ObjectPutter // Overrides the client built from region and endpoint
}

// ParseS3URL splits "s3://bucket/key" into bucket and key.
// ok is false when target is not an S3 URL.
func ParseS3URL(target string) (bucket, key string, ok bool, err error) {
	rest, found := strings.CutPrefix(target, s3Scheme)
	if !found {
		return "", "", false, nil
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("invalid S3 target %q, expected s3://bucket/key", target)
	}
	return bucket, key, true, nil
}

// Render converts fb to an encoded image according to opts and returns the
// bytes with the format used
func Render(fb *renderer.Framebuffer, target string, opts Options) ([]byte, Format, error) {
	format := opts.Format
	if format == Auto {
		var err error
		if format, err = FormatFromPath(target); err != nil {
			return nil, Auto, err
		}
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	var img image.Image = ToImage(fb)
	img, err := Scale(img, scale)
	if err != nil {
		return nil, Auto, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, Auto, fmt.Errorf("failed to encode %v: %w", format, err)
	}
	return buf.Bytes(), format, nil
}

// WriteFile encodes fb and stores it at target, a local path or an
// s3://bucket/key URL
func WriteFile(ctx context.Context, fb *renderer.Framebuffer, target string, opts Options) error {
	bucket, key, isS3, err := ParseS3URL(target)
	if err != nil {
		return err
	}

	data, format, err := Render(fb, target, opts)
	if err != nil {
		return err
	}

	if isS3 {
		client := opts.S3Client
		if client == nil {
			if client, err = NewS3Client(opts.S3Region, opts.S3Endpoint); err != nil {
				return err
			}
		}
		return upload(ctx, client, bucket, key, data, format)
	}

	return writeLocal(target, data)
}

func writeLocal(target string, data []byte) error {
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	glog.V(1).Infof("Wrote %s (%d bytes)", target, len(data))
	return nil
}

// NewS3Client creates an S3 client using the default credential chain
func NewS3Client(region, endpoint string) (*s3.S3, error) {
	config := &aws.Config{}
	if region != "" {
		config.Region = aws.String(region)
	}
	if endpoint != "" {
		config.Endpoint = aws.String(endpoint)
		config.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

func upload(ctx context.Context, client ObjectPutter, bucket, key string, data []byte, format Format) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(format.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path.Join(bucket, key), err)
	}

	glog.Infof("Uploaded s3://%s/%s (%d bytes)", bucket, key, size)
	return nil
}
