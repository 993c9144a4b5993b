package marketdata

import "context"

// Descriptor names one upstream market-data query. It is immutable once the
// endpoint set is built.
type Descriptor struct {
	Name     string
	Path     string
	Defaults map[string]string
	Intraday bool
}

// DefaultEndpoints is the standard five-source set for one ticker.
func DefaultEndpoints(ticker string) []Descriptor {
	return []Descriptor{
		{
			Name:     "gamma_heatmap",
			Path:     "/heatmap/",
			Defaults: map[string]string{"ticker": ticker, "type": "gamma", "customer_type": "procust"},
			Intraday: true,
		},
		{
			Name:     "charm_heatmap",
			Path:     "/heatmap/",
			Defaults: map[string]string{"ticker": ticker, "type": "charm", "customer_type": "procust"},
			Intraday: true,
		},
		{
			Name: "breakdown_by_strike",
			Path: "/breakdown-by-strike/",
			Defaults: map[string]string{
				"ticker":          ticker,
				"metric":          "gex",
				"option_type":     "all",
				"customer_type":   "procust",
				"expiration_type": "all",
			},
		},
		{
			Name: "breakdown_by_expiration",
			Path: "/breakdown-by-expiration/",
			Defaults: map[string]string{
				"ticker":        ticker,
				"metric":        "gex",
				"option_type":   "all",
				"customer_type": "procust",
			},
		},
		{
			Name:     "depth_view",
			Path:     "/depthview/",
			Defaults: map[string]string{"ticker": ticker, "metric": "position", "customer_type": "procust"},
			Intraday: true,
		},
	}
}

// EndpointSource binds a descriptor to a client so it can be aggregated
// alongside other sources.
type EndpointSource struct {
	client     *Client
	descriptor Descriptor
}

func (c *Client) Source(d Descriptor) *EndpointSource {
	return &EndpointSource{client: c, descriptor: d}
}

func (c *Client) Sources(descriptors []Descriptor) []Source {
	sources := make([]Source, 0, len(descriptors))
	for _, d := range descriptors {
		sources = append(sources, c.Source(d))
	}
	return sources
}

func (s *EndpointSource) Name() string {
	return s.descriptor.Name
}

func (s *EndpointSource) Fetch(ctx context.Context, snap Snapshot) Outcome {
	return s.client.Fetch(ctx, s.descriptor, s.Params(snap))
}

// Params selects the query model. Endpoints without intraday support, or
// requests without a resolved slot, get the daily model and only the date.
func (s *EndpointSource) Params(snap Snapshot) map[string]string {
	params := map[string]string{"date": snap.Date}

	if s.descriptor.Intraday && snap.Slot != "" {
		params["model"] = ModelIntraday
		params["date_time"] = snap.Slot
		return params
	}

	params["model"] = ModelDaily
	return params
}
