package fare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/utils"
)

// ScraperSource fetches fares from the browser-automation scraper service.
// The scraping itself runs in that sidecar; this client only speaks its
// HTTP contract.
type ScraperSource struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewScraperSource creates a client for the scraper service.
func NewScraperSource(baseURL, bearerToken string, timeout time.Duration, logger logger.Logger) *ScraperSource {
	return &ScraperSource{
		logger:      logger,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: timeout},
	}
}

// Name identifies the backend in price point source tags.
func (s *ScraperSource) Name() string {
	return "scraper"
}

type scrapeRequest struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departureDate"`
	ReturnDate    string   `json:"returnDate,omitempty"`
	FlightNumbers []string `json:"flightNumbers,omitempty"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Price         float64  `json:"price"`
		Airline       string   `json:"airline"`
		FlightNumbers []string `json:"flightNumbers"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Fetch asks the scraper service for the current fare.
func (s *ScraperSource) Fetch(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	reqBody := scrapeRequest{
		Origin:        query.Origin,
		Destination:   query.Destination,
		DepartureDate: query.DepartureDate.Format(utils.DATE_LAYOUT),
		FlightNumbers: query.FlightNumbers,
	}
	if query.RoundTrip() {
		reqBody.ReturnDate = query.ReturnDate.Format(utils.DATE_LAYOUT)
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/fares/search", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create scrape request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransientError{Reason: "scraper service unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &TransientError{Reason: "scraper service rate limited"}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &TransientError{Reason: fmt.Sprintf("scraper service returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		// Auth and contract rejections are a misconfigured client, not a
		// missing fare.
		return nil, &TransientError{Reason: fmt.Sprintf("scraper service rejected request with status %d", resp.StatusCode)}
	}

	var response scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &TransientError{Reason: "failed to decode scraper response", Err: err}
	}

	if !response.Success {
		if response.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoFare, response.Error.Message)
		}
		return nil, ErrNoFare
	}

	s.logger.Debug("Scraper returned fare",
		"route", query.Origin+"-"+query.Destination,
		"price", response.Data.Price,
		"airline", response.Data.Airline)

	return &entity.FareQuote{
		Price:         response.Data.Price,
		Airline:       response.Data.Airline,
		FlightNumbers: response.Data.FlightNumbers,
		Source:        s.Name(),
		FetchedAt:     time.Now(),
	}, nil
}
