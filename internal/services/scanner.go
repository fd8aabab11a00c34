package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
	"github.com/pokeport/pokeport-ai/backend/internal/models"
)

// ErrNoImage is returned when a scan is requested without image bytes. No
// external calls are made in that case.
var ErrNoImage = errors.New("no image provided")

// ScanService runs the scan pipeline: recognize, search, match, price,
// assemble. Only the recognition stage can abort the pipeline; everything
// after it degrades instead of failing.
type ScanService struct {
	recognizer CardRecognizer
	market     *MarketDataService
	images     *ImageStorageService
}

// NewScanService wires the pipeline. images may be nil to skip storing
// uploads on disk.
func NewScanService(recognizer CardRecognizer, market *MarketDataService, images *ImageStorageService) *ScanService {
	return &ScanService{
		recognizer: recognizer,
		market:     market,
		images:     images,
	}
}

// Scan resolves one uploaded image to a recognized identity and a market
// price. The display image prefers the catalog's official artwork; when
// none was found the upload itself is re-encoded as a data URL so the
// client always has something to render.
func (s *ScanService) Scan(ctx context.Context, imageBytes []byte, mimeType string) (*models.ScanResult, error) {
	if len(imageBytes) == 0 {
		metrics.ScanRequestsTotal.WithLabelValues("no_image").Inc()
		return nil, ErrNoImage
	}

	start := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	identity, err := s.recognizer.RecognizeCard(ctx, imageBytes)
	if err != nil {
		metrics.ScanRequestsTotal.WithLabelValues("recognition_failed").Inc()
		return nil, err
	}

	price := s.market.GetMarketPrice(ctx, identity.Name, identity.Set, identity.Condition)

	imageURL := price.ImageURL
	if imageURL == "" {
		if mimeType == "" {
			mimeType = detectMimeType(imageBytes)
		}
		imageURL = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))
	}

	if s.images != nil {
		// Keep the upload for later reference; never block the response.
		go func(data []byte, mime string) {
			if _, err := s.images.SaveScan(data, mime); err != nil {
				log.Printf("Warning: failed to store scanned image: %v", err)
			}
		}(imageBytes, mimeType)
	}

	metrics.ScanRequestsTotal.WithLabelValues("success").Inc()
	return &models.ScanResult{
		Recognition: *identity,
		MarketPrice: price,
		ImageURL:    imageURL,
	}, nil
}
