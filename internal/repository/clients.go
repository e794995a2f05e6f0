package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	rdsutils "github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
)

type Config struct {
	Profile      string // Primarily for dev purposes
	S3BucketName string
	Region       string

	DatabaseURL string // Plain DSN; takes precedence over IAM auth when set

	DBEndpoint string // e.g. clearvue.abc123xyz.eu-central-1.rds.amazonaws.com
	DBUser     string // an IAM-enabled user
	DBName     string
	DBPort     int // e.g. 5432
}

type S3Client struct {
	Client     *s3.Client // The actual S3 client
	BucketName string     // The bucket name (from config)
}

// RDSClient encapsulates the PostgreSQL client (sql.DB).
type RDSClient struct {
	Client *sql.DB
}

func (c *Config) LoadAWSConfig(ctx context.Context) (*aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &cfg, nil
}

// NewS3Client creates a new S3 client and stores the bucket name
func NewS3Client(ctx context.Context, cfg *Config) (*S3Client, error) {
	awsCfg, err := cfg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for S3 client: %w", err)
	}

	return &S3Client{
		Client:     s3.NewFromConfig(*awsCfg),
		BucketName: cfg.S3BucketName,
	}, nil
}

// IAMConnString builds a PostgreSQL DSN that authenticates with an RDS IAM
// token instead of a password. The token is generated locally, no API call.
func (c *Config) IAMConnString(ctx context.Context) (string, error) {
	awsCfg, err := c.LoadAWSConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config for RDS: %w", err)
	}

	endpointWithPort := fmt.Sprintf("%s:%d", c.DBEndpoint, c.DBPort)

	authToken, err := rdsutils.BuildAuthToken(
		ctx,
		endpointWithPort,
		c.Region,
		c.DBUser,
		awsCfg.Credentials,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create authentication token: %w", err)
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=require",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(authToken),
		endpointWithPort,
		url.QueryEscape(c.DBName),
	), nil
}

// NewRDSClient opens and pings a PostgreSQL pool. DatabaseURL is used as-is
// when set, otherwise an IAM token connection string is built.
func (c *Config) NewRDSClient(ctx context.Context) (*RDSClient, error) {
	connStr := c.DatabaseURL
	if connStr == "" {
		var err error
		if connStr, err = c.IAMConnString(ctx); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}

	return &RDSClient{Client: db}, nil
}
