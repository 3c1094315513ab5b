package rekognition

import (
	"context"
	"errors"
	"fmt"
	"sort"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/provider"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidImage     = "InvalidImageFormatException"
	errCodeImageTooLarge    = "ImageTooLargeException"
	errCodeInvalidParameter = "InvalidParameterException"
)

// DetectTextAPI is the slice of the Rekognition API this provider uses
type DetectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Provider implements provider.PlateProvider on top of Rekognition DetectText.
// Plates are read as text lines; there is no vehicle type hint from this backend.
type Provider struct {
	api    DetectTextAPI
	config Config
}

// NewProvider creates a Rekognition provider using the default credential chain
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		api:    rekognition.NewFromConfig(awsCfg),
		config: cfg,
	}, nil
}

// NewProviderWithAPI wires a pre-built API client, used by tests
func NewProviderWithAPI(api DetectTextAPI, cfg Config) *Provider {
	return &Provider{api: api, config: cfg}
}

// RecognizePlate runs DetectText and keeps the plate-shaped lines
func (p *Provider) RecognizePlate(ctx context.Context, image []byte) (*provider.PlateResult, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	input := &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	}

	output, err := p.api.DetectText(ctx, input)
	if err != nil {
		return nil, parseDetectTextError(err)
	}

	candidates := plateCandidates(output.TextDetections, p.config.MinTextConfidence)
	if len(candidates) == 0 {
		return nil, domain.ErrNoPlateDetected
	}

	result := &provider.PlateResult{
		Plate:      candidates[0].Plate,
		Confidence: candidates[0].Confidence,
	}
	if len(candidates) > 1 {
		result.Candidates = candidates[1:]
	}

	return result, nil
}

// plateCandidates filters detected lines down to plate-shaped text, ordered
// by descending confidence and rescaled to the 0.0-1.0 range.
func plateCandidates(detections []types.TextDetection, minConfidence float32) []provider.PlateCandidate {
	var candidates []provider.PlateCandidate

	for _, det := range detections {
		if det.Type != types.TextTypesLine || det.DetectedText == nil {
			continue
		}
		if det.Confidence == nil || *det.Confidence < minConfidence {
			continue
		}

		plate := domain.NormalizePlate(*det.DetectedText)
		if !domain.ValidPlate(plate) {
			continue
		}

		candidates = append(candidates, provider.PlateCandidate{
			Plate:      plate,
			Confidence: float64(*det.Confidence) / 100,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return candidates
}

// parseDetectTextError maps AWS API errors onto provider errors
func parseDetectTextError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("detect text: %w", ErrInvalidCredentials)
		case errCodeInvalidImage, errCodeImageTooLarge, errCodeInvalidParameter:
			return fmt.Errorf("%w: %s", ErrInvalidImage, apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("detect text: %w", err)
}
