package miniowr

// Config points the store at a bucket of an S3 compatible server.
type Config struct {
	Endpoint  string `yaml:"endpoint"   validate:"required"`
	AccessKey string `yaml:"access_key" validate:"required"`
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`
	UseSSL    bool   `yaml:"use_ssl"    default:"false"`

	Bucket string `yaml:"bucket" default:"eventhub-assets"`
	// Region is only used to create a missing bucket.
	Region string `yaml:"region" default:"us-east-1"`
	// Prefix is prepended to every object key, e.g. "staging/".
	Prefix string `yaml:"prefix"`
}
