package dashsdk

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

// DefaultTimeout bounds every call made by a client from NewSDKClient.
const DefaultTimeout = 10 * time.Second

// SDKClient performs the raw backend calls. It holds no session state; use a
// Manager for authenticated work.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Endpoints  Endpoints
}

// NewSDKClient creates a client for the backend at baseURL with the default
// endpoint map and a transport that tags each call with a request ID.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: slogx.NewTransport(nil, nil),
		},
		Endpoints: DefaultEndpoints(),
	}
}
