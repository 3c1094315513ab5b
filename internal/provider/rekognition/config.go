package rekognition

// Config holds the AWS Rekognition provider configuration
type Config struct {
	// Region is the AWS region where DetectText runs
	Region string

	// MinTextConfidence filters out low quality OCR lines (0-100, AWS scale)
	MinTextConfidence float32
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Region:            "us-east-1",
		MinTextConfidence: 60,
	}
}
