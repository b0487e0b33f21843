package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
)

const (
	keyPrefix     = "bookings"
	uploadTimeout = 10 * time.Second
)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads the final snapshot of every booking that reaches a closed
// status (completed, cancelled, refunded).
type Archiver struct {
	client objectPutter
	bucket string
	log    *logrus.Entry
}

// NewS3Client builds a client from static keys when given, the default
// credential chain otherwise. A custom endpoint switches to path-style
// addressing for S3-compatible stores.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewArchiver(client objectPutter, bucket string, log *logrus.Entry) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		log:    log.WithField("component", "archive"),
	}
}

// Key is the object key for a booking snapshot, partitioned by closing month.
func Key(b booking.Booking, closedAt time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", keyPrefix, closedAt.UTC().Format("2006/01"), b.ReferenceNumber)
}

func (a *Archiver) Listener() lifecycle.Listener {
	return func(changes []lifecycle.Change) {
		for _, c := range changes {
			if !c.Booking.Status.Closed() || c.Previous == c.Booking.Status {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
			err := a.Put(ctx, c.Booking, c.At)
			cancel()

			if err != nil {
				a.log.WithFields(logrus.Fields{
					"booking_id": c.Booking.ID,
					"status":     c.Booking.Status,
				}).WithError(err).Error("failed to archive booking")
			}
		}
	}
}

func (a *Archiver) Put(ctx context.Context, b booking.Booking, closedAt time.Time) error {
	body, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(b, closedAt)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"booking-id": b.ID,
			"status":     string(b.Status),
		},
	})
	return err
}
