// Package templatestore implements the curriculum.TemplateStore port. The
// authoritative curriculum templates live in an external registry service;
// this package provides the HTTP client plus a cached decorator that keeps
// validation working through short registry outages.
package templatestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the template registry client.
type ClientConfig struct {
	// BaseURL is the registry base URL.
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRY CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client fetches curriculum templates from the registry over HTTP.
// It implements curriculum.TemplateStore.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new template registry client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log.With(logger.Component("templatestore")),
	}
}

// GetTemplate fetches the full template of a program variant.
func (c *Client) GetTemplate(ctx context.Context, programCode string, track curriculum.Track) (*curriculum.Template, error) {
	path := fmt.Sprintf("/api/v1/programs/%s/templates/%s",
		url.PathEscape(programCode), url.PathEscape(string(track)))

	var dto templateDTO
	if err := c.getJSON(ctx, path, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

// GetModuleTemplate fetches one module of a program variant.
func (c *Client) GetModuleTemplate(ctx context.Context, programCode string, track curriculum.Track, moduleID string) (*curriculum.ModuleTemplate, error) {
	tpl, err := c.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}

	m := tpl.FindModule(moduleID)
	if m == nil {
		return nil, shared.ErrModuleTemplateNotFound
	}
	return m, nil
}

// GetInternshipTemplate fetches one internship requirement.
func (c *Client) GetInternshipTemplate(ctx context.Context, programCode string, track curriculum.Track, internshipID string) (*curriculum.InternshipTemplate, error) {
	tpl, err := c.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}

	i, _ := tpl.FindInternship(internshipID)
	if i == nil {
		return nil, shared.ErrTemplateNotFound
	}
	return i, nil
}

// GetCourseTemplate fetches one course requirement.
func (c *Client) GetCourseTemplate(ctx context.Context, programCode string, track curriculum.Track, courseID string) (*curriculum.CourseTemplate, error) {
	tpl, err := c.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}

	courseTpl, _ := tpl.FindCourse(courseID)
	if courseTpl == nil {
		return nil, shared.ErrTemplateNotFound
	}
	return courseTpl, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// HTTP plumbing
// ─────────────────────────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	fullURL := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("registry request failed", logger.String("path", path), logger.Err(err))
		return shared.WrapError("templatestore", "Get", shared.ErrExternalService, "registry unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.WrapError("templatestore", "Get", shared.ErrExternalService, "read response", err)
	}

	c.log.Debug("registry request",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Latency(time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrTemplateNotFound
	case resp.StatusCode >= 500:
		return shared.WrapError("templatestore", "Get", shared.ErrExternalService,
			fmt.Sprintf("registry returned %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return shared.NewDomainError("templatestore", "Get", shared.ErrInvalidInput,
			fmt.Sprintf("registry returned %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return shared.WrapError("templatestore", "Get", shared.ErrExternalService, "decode response", err)
	}
	return nil
}
