package layout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// DefaultServiceTimeout bounds a layout service round trip. The service is
// an optimization, not a dependency; a slow service is treated as absent.
const DefaultServiceTimeout = 2 * time.Second

// ServiceClient talks to an external layout service over HTTP.
type ServiceClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

type serviceEntity struct {
	ID string  `json:"id"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

type serviceLink struct {
	A string `json:"a"`
	B string `json:"b"`
}

type serviceRequest struct {
	Entities []serviceEntity `json:"entities"`
	Links    []serviceLink   `json:"links"`
}

type servicePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type serviceResponse struct {
	Positions []servicePosition `json:"positions"`
}

// NewServiceClient returns a client for the layout service at baseURL.
// timeout <= 0 selects DefaultServiceTimeout.
func NewServiceClient(baseURL string, timeout time.Duration) *ServiceClient {
	if timeout <= 0 {
		timeout = DefaultServiceTimeout
	}
	return &ServiceClient{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Propose asks the service for positions. Any transport, decode or
// coverage problem is an error; callers fall back to the local grid.
func (c *ServiceClient) Propose(ctx context.Context, reg *board.Registry, links []board.Link) (Result, error) {
	req := serviceRequest{
		Entities: make([]serviceEntity, 0, reg.Len()),
		Links:    make([]serviceLink, 0, len(links)),
	}
	for _, id := range reg.IDsSorted() {
		e := reg.Get(id)
		req.Entities = append(req.Entities, serviceEntity{ID: id, W: e.Size.W, H: e.Size.H})
	}
	for _, l := range links {
		req.Links = append(req.Links, serviceLink{A: l.A, B: l.B})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshalling layout request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/layout", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating layout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling layout service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("layout service returned %d: %s", resp.StatusCode, string(b))
	}

	var sr serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding layout response: %w", err)
	}

	res := make(Result, len(sr.Positions))
	for _, p := range sr.Positions {
		res[p.ID] = geom.Pt(p.X, p.Y)
	}
	// Partial answers are rejected wholesale so the board never ends up
	// half service-placed, half stale.
	for _, id := range reg.IDsSorted() {
		if _, ok := res[id]; !ok {
			return nil, fmt.Errorf("layout service omitted entity %q", id)
		}
	}
	return res, nil
}

// Compute returns service positions when a client is configured and
// responsive, the grid fallback otherwise. It never fails.
func Compute(ctx context.Context, client *ServiceClient, reg *board.Registry, links []board.Link) Result {
	if client != nil && client.baseURL != "" {
		if res, err := client.Propose(ctx, reg, links); err == nil {
			return res
		}
	}
	return Fallback(reg, links)
}
