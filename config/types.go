package config

// MetricsConfig controls the metrics exposition server and push target.
type MetricsConfig struct {
	Addr     string `yaml:"addr"`
	PushURL  string `yaml:"pushURL" validate:"omitempty,url"`
	Interval int    `yaml:"intervalSeconds" validate:"gte=0"`
}

// ObjectStoreConfig configures the optional S3-compatible chunk sink.
// When Bucket is empty, chunk output falls back to the local filesystem.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
}

// ChunkWriterConfig tunes the KV6 chunk accumulator.
type ChunkWriterConfig struct {
	MaxChunkRows      int    `yaml:"maxChunkRows" validate:"gt=0"`
	FlushIntervalSecs int    `yaml:"flushIntervalSeconds" validate:"gt=0"`
	OutputDir         string `yaml:"outputDir" validate:"required"`
}

// KV1Config locates the KV1 "Dienstregeling" input files to ingest.
type KV1Config struct {
	InputPaths []string `yaml:"inputPaths"`
}

// KV6Config selects the real-time subscription endpoint variant.
type KV6Config struct {
	ProductionEndpoint bool   `yaml:"productionEndpoint"`
	ReplayDir          string `yaml:"replayDir"`
}

// AppConfig is the root configuration structure for both ingest binaries.
type AppConfig struct {
	Metrics     MetricsConfig     `yaml:"metrics" validate:"required"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
	ChunkWriter ChunkWriterConfig `yaml:"chunkWriter" validate:"required"`
	KV1         KV1Config         `yaml:"kv1"`
	KV6         KV6Config         `yaml:"kv6"`
}
