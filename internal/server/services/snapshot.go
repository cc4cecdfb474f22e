package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/credvault/internal/common"
	sc "github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newObjectPutter = func(c *s3.Client) objectPutter {
		return c
	}

	now = time.Now
)

// SnapshotRecord is one credential as exported. Secret is the serialized
// encrypted record, base64 encoded.
type SnapshotRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	Cipher    string    `json:"cipher"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the exported document. It never contains plaintext secrets.
type Snapshot struct {
	OwnerID   int64            `json:"owner_id"`
	CreatedAt time.Time        `json:"created_at"`
	Records   []SnapshotRecord `json:"records"`
}

// SnapshotService exports a caller's encrypted vault to S3-compatible storage.
type SnapshotService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewSnapshotService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *SnapshotService {
	return &SnapshotService{db: db, repomanager: m, config: cfg}
}

// SnapshotKey builds the object key for an export made at t.
func SnapshotKey(ownerID int64, t time.Time) string {
	return fmt.Sprintf("snapshots/%d/%04d/%02d/%02d/%v.json", ownerID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *SnapshotService) getClient(ctx context.Context) (objectPutter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return newObjectPutter(client), nil
}

// Build collects the caller's records without decrypting them.
func (s *SnapshotService) Build(ctx context.Context, callerID int64) (*Snapshot, error) {
	if err := requireCaller(ctx, s.repomanager.Users(s.db), callerID); err != nil {
		return nil, err
	}

	items, err := s.repomanager.Credentials(s.db).List(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}

	snap := &Snapshot{OwnerID: callerID, CreatedAt: now().UTC(), Records: make([]SnapshotRecord, 0, len(items))}
	for _, c := range items {
		blob, err := c.Secret.Serialize()
		if err != nil {
			return nil, fmt.Errorf("credential %d: %w", c.ID, err)
		}
		snap.Records = append(snap.Records, SnapshotRecord{
			ID:        c.ID,
			Name:      c.Name,
			Category:  string(c.Category),
			URL:       c.URL,
			Cipher:    string(c.Secret.Strategy),
			Secret:    base64.StdEncoding.EncodeToString(blob),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return snap, nil
}

// Export uploads the caller's snapshot and returns its object key.
func (s *SnapshotService) Export(ctx context.Context, callerID int64) (string, error) {
	snap, err := s.Build(ctx, callerID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error configuring s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := SnapshotKey(callerID, snap.CreatedAt)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading snapshot: %w", err)
	}
	return key, nil
}
