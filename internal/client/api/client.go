// Package api is a small HTTP client for the assettrack REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// APIError is a non-2xx response decoded from the error envelope. It
// matches the common sentinel for its status under errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusUnauthorized:
		return target == common.ErrorUnauthorized
	case http.StatusForbidden:
		return target == common.ErrInvalidCredentials
	case http.StatusNotFound:
		return target == common.ErrorNotFound
	case http.StatusBadRequest:
		if e.Code == "DUPLICATE_USERNAME" {
			return target == common.ErrDuplicateUsername
		}
		return target == common.ErrorValidation
	}
	return false
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Upload struct {
	Attachment *models.Attachment `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
}

type Download struct {
	Attachment  *models.Attachment `json:"attachment"`
	DownloadURL string             `json:"download_url"`
}

type NewAsset struct {
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	PurchaseDate string `json:"purchase_date,omitempty"`
	Status       string `json:"status,omitempty"`
	Location     string `json:"location,omitempty"`
}

type NewMaintenanceLog struct {
	ServiceDate    string `json:"service_date"`
	TechnicianName string `json:"technician_name,omitempty"`
	Description    string `json:"description,omitempty"`
	Cost           string `json:"cost"`
	NewStatus      string `json:"new_status,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// HTTPClient is the underlying client, also used for presigned transfers.
func (c *Client) HTTPClient() *http.Client { return c.http }

func (c *Client) SetToken(token string) { c.token = token }
func (c *Client) Token() string         { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, auth bool, out any) error {
	if auth && c.token == "" {
		return ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
	}
	if apiErr.Code == "" {
		apiErr.Code = strconv.Itoa(resp.StatusCode)
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, auth, out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, "", false, nil)
}

func (c *Client) Register(ctx context.Context, username, password, role string) (*User, error) {
	in := map[string]string{"username": username, "password": password, "role": role}
	var u User
	if err := c.doJSON(ctx, http.MethodPost, "/register", in, false, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login posts form-encoded credentials and keeps the returned token for
// later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var t Token
	err := c.do(ctx, http.MethodPost, "/login", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false, &t)
	if err != nil {
		return nil, err
	}
	c.token = t.AccessToken
	return &t, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	var out []*models.Asset
	if err := c.doJSON(ctx, http.MethodGet, "/assets", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAsset(ctx context.Context, in NewAsset) (*models.Asset, error) {
	var a models.Asset
	if err := c.doJSON(ctx, http.MethodPost, "/assets", in, true, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/assets/%d", id), nil, true, nil)
}

func (c *Client) UpdateAssetStatus(ctx context.Context, id int64, status string) (*models.Asset, error) {
	var a models.Asset
	in := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/assets/%d/status", id), in, true, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ListMaintenance(ctx context.Context, assetID int64) ([]*models.MaintenanceLog, error) {
	var out []*models.MaintenanceLog
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/assets/%d/maintenance", assetID), nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddMaintenance(ctx context.Context, assetID int64, in NewMaintenanceLog) (*models.MaintenanceLog, error) {
	var l models.MaintenanceLog
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/assets/%d/maintenance", assetID), in, true, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) CreateAttachment(ctx context.Context, assetID int64, fileName, contentType string) (*Upload, error) {
	in := map[string]string{"file_name": fileName, "content_type": contentType}
	var u Upload
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/assets/%d/attachments", assetID), in, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) MarkUploaded(ctx context.Context, assetID, id int64) (*models.Attachment, error) {
	var a models.Attachment
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/assets/%d/attachments/%d/uploaded", assetID, id), nil, true, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ListAttachments(ctx context.Context, assetID int64) ([]*models.Attachment, error) {
	var out []*models.Attachment
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/assets/%d/attachments", assetID), nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAttachment(ctx context.Context, assetID, id int64) (*Download, error) {
	var d Download
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/assets/%d/attachments/%d", assetID, id), nil, true, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
