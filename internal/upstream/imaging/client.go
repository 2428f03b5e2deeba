// Package imaging is the thin HTTP client for the DICOM image extraction
// service. The portal only lists derived image URLs; pixels never pass
// through here.
package imaging

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/raysight/portal/internal/upstream"
)

type imageURLsResponse struct {
	ImageURLs []string `json:"image_urls"`
}

// Client talks to the imaging service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = upstream.NewHTTPClient(0)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ImageURLs lists the rendered image URLs for one series of a study.
func (c *Client) ImageURLs(ctx context.Context, studyUID, seriesUID string) ([]string, error) {
	if studyUID == "" || seriesUID == "" {
		return nil, &upstream.Error{
			Op:      "imaging: list image urls",
			Kind:    upstream.KindValidation,
			Message: "study and series identifiers are required",
		}
	}
	var res imageURLsResponse
	err := upstream.GetJSON(ctx, c.http, "imaging: list image urls",
		c.baseURL+"/get_image_urls/"+url.PathEscape(studyUID)+"/"+url.PathEscape(seriesUID), &res)
	if err != nil {
		return nil, err
	}
	return res.ImageURLs, nil
}
