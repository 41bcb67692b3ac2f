package assistant

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	MaxRecords int
}

// Service writes a short natural-language summary of a child's growth with
// a hosted text generation model. It never fails: a missing key or a failed
// call yields a fixed explanatory message.
type Service struct {
	apiKey     string
	model      string
	baseURL    string
	apiVersion string
	maxRecords int
	enabled    bool
	httpClient *http.Client
}

func NewService(cfg Config) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}

	return &Service{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		apiVersion: strings.Trim(cfg.APIVersion, "/"),
		maxRecords: cfg.MaxRecords,
		enabled:    cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (s *Service) Enabled() bool {
	return s.enabled
}

// AnalyzeGrowth summarizes the most recent records of the child.
func (s *Service) AnalyzeGrowth(ctx context.Context, profile *model.ChildProfile, records []model.GrowthRecord) string {
	logger := utils.GetLogger(ctx)

	if !s.enabled {
		logger.Warn("API key not found, skip growth analysis")
		return MissingKeyMessage
	}

	prompt, err := BuildPrompt(profile, RecentRecords(records, s.maxRecords))
	if err != nil {
		logger.Error("BuildPrompt failed", zap.Error(err))
		return FailureMessage
	}

	text, err := s.callLLM(ctx, prompt)
	if err != nil {
		logger.Error("error generating growth analysis", zap.Error(err), zap.String("model", s.model))
		return FailureMessage
	}
	if strings.TrimSpace(text) == "" {
		return EmptyResponseMessage
	}
	return text
}

func (s *Service) callLLM(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     s.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    s.baseURL,
			APIVersion: s.apiVersion,
		},
	})
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
