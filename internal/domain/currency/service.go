// internal/domain/currency/service.go
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRateNotFound is returned when no exchange rate exists for a currency
var ErrRateNotFound = errors.New("exchange rate not found")

// symbols maps the supported currency set to display symbols
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"RUB": "₽",
	"AED": "د.إ",
}

// Service handles exchange-rate lookups and the periodic feed refresh
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	httpClient  *http.Client
	log         *logrus.Entry
}

// NewService creates a new currency service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logrus.WithField("component", "currency"),
	}
}

// FindByCurrency returns the exchange rate for a currency code. INR is the
// base currency and resolves without a database row. Returns ErrRateNotFound
// when the currency has no stored rate.
func (s *Service) FindByCurrency(ctx context.Context, code string) (*ExchangeRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == "INR" {
		return INR(), nil
	}

	// Cache hit path
	if cached := s.getCached(ctx, code); cached != nil {
		return cached, nil
	}

	var rate ExchangeRate
	err := s.db.WithContext(ctx).Where("currency = ?", code).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve exchange rate: %w", err)
	}

	s.setCached(ctx, &rate)
	return &rate, nil
}

// Supported returns every currency the store can price in, INR included
func (s *Service) Supported(ctx context.Context) ([]ExchangeRate, error) {
	var rates []ExchangeRate
	if err := s.db.WithContext(ctx).Order("currency asc").Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return append([]ExchangeRate{*INR()}, rates...), nil
}

// StartRefresher refreshes rates immediately and then on the configured
// schedule until ctx is cancelled.
func (s *Service) StartRefresher(ctx context.Context) {
	if err := s.RefreshRates(ctx); err != nil {
		s.log.WithError(err).Error("initial exchange rate refresh failed")
	}

	ticker := time.NewTicker(s.config.External.RateFeed.RefreshInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.RefreshRates(ctx); err != nil {
					s.log.WithError(err).Error("exchange rate refresh failed")
				}
			}
		}
	}()
}

// feedResponse is the shape of the INR-based rate feed payload
type feedResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// RefreshRates fetches the INR-based feed and upserts the configured currency set
func (s *Service) RefreshRates(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.External.RateFeed.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create rate feed request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rate feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("failed to decode rate feed response: %w", err)
	}

	now := time.Now().UTC()
	for _, code := range s.config.External.RateFeed.Currencies {
		code = strings.ToUpper(strings.TrimSpace(code))
		value, ok := feed.Rates[code]
		if !ok {
			s.log.WithField("currency", code).Warn("rate feed missing configured currency")
			continue
		}

		rate := ExchangeRate{
			Currency:    code,
			Rate:        decimal.NewFromFloat(value),
			Symbol:      symbolFor(code),
			LastUpdated: now,
		}

		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "currency"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "symbol", "last_updated"}),
		}).Create(&rate).Error
		if err != nil {
			return fmt.Errorf("failed to upsert exchange rate for %s: %w", code, err)
		}

		s.invalidateCache(ctx, code)
	}

	s.log.WithField("currencies", s.config.External.RateFeed.Currencies).Info("exchange rates refreshed")
	return nil
}

// Private helpers

func (s *Service) cacheKey(code string) string {
	return fmt.Sprintf("exchange_rate:%s", code)
}

func (s *Service) getCached(ctx context.Context, code string) *ExchangeRate {
	if s.redisClient == nil {
		return nil
	}

	data, err := s.redisClient.Get(ctx, s.cacheKey(code)).Result()
	if err != nil {
		return nil
	}

	var rate ExchangeRate
	if err := json.Unmarshal([]byte(data), &rate); err != nil {
		return nil
	}
	return &rate
}

func (s *Service) setCached(ctx context.Context, rate *ExchangeRate) {
	if s.redisClient == nil {
		return
	}

	data, err := json.Marshal(rate)
	if err != nil {
		return
	}
	s.redisClient.Set(ctx, s.cacheKey(rate.Currency), data, s.config.External.RateFeed.RefreshInterval)
}

func (s *Service) invalidateCache(ctx context.Context, code string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, s.cacheKey(code))
}

func symbolFor(code string) string {
	if symbol, ok := symbols[code]; ok {
		return symbol
	}
	return code
}
