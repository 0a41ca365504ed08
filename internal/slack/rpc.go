package slack

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/keepmind9/slackbridge/pkg/constants"
)

// connectionsOpenMethod is the only method whose token travels in the
// Authorization header instead of the request body.
const connectionsOpenMethod = "apps.connections.open"

// APIError is the single structured failure value surfaced by Web API
// calls: a code, a human-readable message, and an optional remediation
// hint. Calls are never retried internally.
type APIError struct {
	Code        string
	Message     string
	Remediation string
}

func (e *APIError) Error() string {
	if e.Remediation != "" {
		return e.Message + " (" + e.Remediation + ")"
	}
	return e.Message
}

// Client issues authenticated Slack Web API calls. Each call is a stateless
// blocking round trip; concurrency and resilience are layered by callers.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient creates a Web API client. An invalid proxy URL is an error.
func NewClient(config Config, log *logrus.Entry) (*Client, error) {
	httpClient := &http.Client{Timeout: constants.DefaultHTTPTimeout}
	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", config.Proxy, err)
		}
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return &Client{
		config:     config,
		baseURL:    constants.APIBaseURL,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// Call invokes a Web API method with the configured default token.
func (c *Client) Call(method string, params map[string]string) (map[string]interface{}, error) {
	return c.call(method, params, "")
}

// CallWithToken invokes a Web API method with an overriding token. For
// apps.connections.open the token goes into the Authorization header and no
// token body parameter is sent; for every other method it is merged into
// the POST body like the default token would be.
func (c *Client) CallWithToken(token, method string, params map[string]string) (map[string]interface{}, error) {
	return c.call(method, params, token)
}

func (c *Client) call(method string, params map[string]string, tokenOverride string) (map[string]interface{}, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	headerToken := ""
	if tokenOverride != "" && method == connectionsOpenMethod {
		headerToken = tokenOverride
	} else if tokenOverride != "" {
		values.Set("token", tokenOverride)
	} else {
		values.Set("token", c.config.Token)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+method, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if headerToken != "" {
		req.Header.Set("Authorization", "Bearer "+headerToken)
	}

	c.log.WithField("method", method).Debug("calling-slack-api")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Code:    "transport_error",
			Message: fmt.Sprintf("Slack API call to %s failed: %v", method, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != constants.HTTPSuccessStatusCode {
		return nil, &APIError{
			Code:    "http_error",
			Message: fmt.Sprintf("Slack API call to %s returned status %d", method, resp.StatusCode),
		}
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &APIError{
			Code:    "invalid_response",
			Message: fmt.Sprintf("Slack API call to %s returned unparseable body: %v", method, err),
		}
	}

	if ok, _ := body["ok"].(bool); !ok {
		return nil, c.wrapResponseError(method, body)
	}
	return body, nil
}

// wrapResponseError turns a response-level error field into an APIError,
// enriching missing_scope with a remediation hint.
func (c *Client) wrapResponseError(method string, body map[string]interface{}) *APIError {
	code, _ := body["error"].(string)
	if code == "" {
		code = "unknown_error"
	}
	apiErr := &APIError{
		Code:    code,
		Message: fmt.Sprintf("Slack API call to %s returned an error: %s", method, code),
	}
	if code == "missing_scope" {
		if needed, _ := body["needed"].(string); needed != "" {
			apiErr.Remediation = fmt.Sprintf("add the %q scope to the app and reinstall it", needed)
		} else {
			apiErr.Remediation = "add the required OAuth scopes to the app and reinstall it"
		}
	}
	return apiErr
}
