package plate

import (
	"context"
	"fmt"

	"github.com/dcastrillonv/parqueadero/internal/config"
	"github.com/dcastrillonv/parqueadero/internal/provider"
	"github.com/dcastrillonv/parqueadero/internal/provider/mock"
	"github.com/dcastrillonv/parqueadero/internal/provider/platerecognizer"
	"github.com/dcastrillonv/parqueadero/internal/provider/rekognition"
)

// ProviderType defines supported plate recognition provider types
type ProviderType string

const (
	// ProviderTypePlateRecognizer is the Plate Recognizer SaaS (default)
	ProviderTypePlateRecognizer ProviderType = "platerecognizer"
	// ProviderTypeRekognition is AWS Rekognition DetectText
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the in-memory provider for dev/test
	ProviderTypeMock ProviderType = "mock"
)

// NewPlateProvider creates a PlateProvider instance based on configuration
//
// Environment variables:
//   - PLATE_PROVIDER: "platerecognizer", "rekognition" or "mock" (default: "platerecognizer")
//   - PLATE_RECOGNIZER_URL / PLATE_RECOGNIZER_TOKEN: Plate Recognizer API access
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewPlateProvider(ctx context.Context, cfg *config.Config) (provider.PlateProvider, error) {
	providerType := ProviderType(cfg.PlateProvider)

	switch providerType {
	case ProviderTypeRekognition:
		return createRekognitionProvider(ctx, cfg)

	case ProviderTypePlateRecognizer, "":
		return createPlateRecognizerProvider(cfg), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.PlateProvider, ProviderTypePlateRecognizer, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// createRekognitionProvider creates an AWS Rekognition provider instance
func createRekognitionProvider(ctx context.Context, cfg *config.Config) (provider.PlateProvider, error) {
	rekogConfig := rekognition.DefaultConfig()
	rekogConfig.Region = cfg.AWSRegion

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider: %w", err)
	}

	return prov, nil
}

// createPlateRecognizerProvider creates a Plate Recognizer provider instance
func createPlateRecognizerProvider(cfg *config.Config) provider.PlateProvider {
	prConfig := platerecognizer.DefaultConfig()
	if cfg.PlateRecognizerURL != "" {
		prConfig.BaseURL = cfg.PlateRecognizerURL
	}
	prConfig.Token = cfg.PlateRecognizerToken

	return platerecognizer.NewProvider(prConfig)
}
