package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
)

// Client talks to the employee REST API. It issues exactly one request per
// call and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ employee.Client = (*Client)(nil)

// New creates a client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the API address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListStatusOptions(ctx context.Context) (employee.StatusVocabulary, error) {
	var out employee.StatusVocabulary
	if err := c.do(ctx, http.MethodGet, "/status-options", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id int64, req employee.ProfileUpdate) (employee.Employee, error) {
	var out employee.Employee
	if err := c.do(ctx, http.MethodPut, employeePath(id), req, &out); err != nil {
		return employee.Employee{}, err
	}
	return out, nil
}

func (c *Client) UpdateEmployeeStatus(ctx context.Context, id int64, req employee.StatusUpdate) (employee.CurrentStatus, error) {
	var out employee.CurrentStatus
	if err := c.do(ctx, http.MethodPut, employeePath(id)+"/status", req, &out); err != nil {
		return employee.CurrentStatus{}, err
	}
	return out, nil
}

func (c *Client) GetMemberProfile(ctx context.Context, loginID string) (employee.MemberProfile, error) {
	var out employee.MemberProfile
	if err := c.do(ctx, http.MethodGet, memberPath(loginID), nil, &out); err != nil {
		return employee.MemberProfile{}, err
	}
	return out, nil
}

func (c *Client) UpdateMemberProfile(ctx context.Context, loginID string, req employee.ProfileUpdate) (employee.MemberProfile, error) {
	var out employee.MemberProfile
	if err := c.do(ctx, http.MethodPut, memberPath(loginID), req, &out); err != nil {
		return employee.MemberProfile{}, err
	}
	return out, nil
}

func (c *Client) UpdateMemberStatus(ctx context.Context, loginID string, req employee.StatusUpdate) (employee.CurrentStatus, error) {
	var out employee.CurrentStatus
	if err := c.do(ctx, http.MethodPut, memberPath(loginID)+"/status", req, &out); err != nil {
		return employee.CurrentStatus{}, err
	}
	return out, nil
}

func employeePath(id int64) string {
	return "/employees/" + url.PathEscape(strconv.FormatInt(id, 10))
}

func memberPath(loginID string) string {
	return "/members/" + url.PathEscape(loginID)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Detail:     parseDetail(respBody),
			Body:       respBody,
		}
		slog.Debug("Employee API returned error", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
