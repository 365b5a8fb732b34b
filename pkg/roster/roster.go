// Package roster provides a client for a school information system that
// owns the student roster and canteen orders.
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abrezinsky/campusvote/internal/logger"
)

// ErrNotFound is returned when the roster has no matching record
var ErrNotFound = errors.New("roster: not found")

// FlexString is a string type that can be unmarshaled from either a string or a number.
// Some school systems hand out numeric admission numbers as JSON numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: cannot unmarshal %s", string(data))
}

// String returns the string value
func (f FlexString) String() string {
	return string(f)
}

// Student is a roster entry
type Student struct {
	ID       FlexString `json:"id"`
	SchoolID string     `json:"school_id"`
	Name     string     `json:"name"`
	Class    FlexString `json:"class"`
}

// StudentListResponse is the response from the student list endpoint
type StudentListResponse struct {
	Students []Student `json:"students"`
}

// CanteenOrder is a pending order as reported by the school system
type CanteenOrder struct {
	ID        FlexString `json:"id"`
	StudentID FlexString `json:"student_id"`
	Item      string     `json:"item"`
	Status    string     `json:"status"`
	CreatedAt int64      `json:"created_at"`
}

// Client defines the interface for roster operations
type Client interface {
	// ResolveIdentity looks a raw id or code up within a school
	ResolveIdentity(ctx context.Context, schoolID, raw string) (*Student, error)
	// ActiveCanteenOrder returns the student's pending canteen order
	ActiveCanteenOrder(ctx context.Context, schoolID, studentID string) (*CanteenOrder, error)
	// ListStudents returns the whole roster of a school
	ListStudents(ctx context.Context, schoolID string) ([]Student, error)
	// BaseURL returns the configured base URL
	BaseURL() string
	// SetToken configures the bearer token sent with each request
	SetToken(token string)
}

// HTTPClient is a real HTTP client for the roster service
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new roster HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// NewHTTPClientWithHTTPClient creates a new roster client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetToken configures the bearer token
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// doRequest performs a GET against the roster and decodes the JSON body.
// A 404 maps to ErrNotFound.
func (c *HTTPClient) doRequest(ctx context.Context, path string, response interface{}) error {
	reqURL := c.baseURL + path

	c.log.Debug("Roster request", "method", "GET", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to roster: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Roster response", "status", resp.StatusCode, "bytes", len(body))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("roster returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func studentPath(schoolID, studentID string) string {
	return fmt.Sprintf("/schools/%s/students/%s", url.PathEscape(schoolID), url.PathEscape(studentID))
}

// ResolveIdentity looks a student up by raw id or code
func (c *HTTPClient) ResolveIdentity(ctx context.Context, schoolID, raw string) (*Student, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNotFound
	}

	var student Student
	if err := c.doRequest(ctx, studentPath(schoolID, raw), &student); err != nil {
		return nil, err
	}
	if student.SchoolID == "" {
		student.SchoolID = schoolID
	}
	return &student, nil
}

// ActiveCanteenOrder returns the student's pending canteen order
func (c *HTTPClient) ActiveCanteenOrder(ctx context.Context, schoolID, studentID string) (*CanteenOrder, error) {
	var order CanteenOrder
	if err := c.doRequest(ctx, studentPath(schoolID, studentID)+"/canteen-order", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListStudents returns the whole roster of a school
func (c *HTTPClient) ListStudents(ctx context.Context, schoolID string) ([]Student, error) {
	var response StudentListResponse
	path := fmt.Sprintf("/schools/%s/students", url.PathEscape(schoolID))
	if err := c.doRequest(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Students, nil
}
